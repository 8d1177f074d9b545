package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/api/httperror"
	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/infrastructure/http/handlers"

	_ "github.com/inkwell/blog-api/docs"
)

// Dependencies are the collaborators the HTTP layer needs. Readiness may be
// nil, in which case /health/ready is not mounted.
type Dependencies struct {
	Auth     ports.AuthService
	Authors  ports.AuthorService
	Posts    ports.PostService
	Tags     ports.TagService
	Tokens   ports.TokenService
	Sessions ports.SessionLoader
	Audit    ports.AuditSink

	Cookie    handler.CookieConfig
	Readiness *handlers.HealthDependenciesHandler
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = httperror.NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Audit, deps.Cookie)
	authorHandler := handler.NewAuthorHandler(deps.Authors, deps.Audit)
	postHandler := handler.NewPostHandler(deps.Posts)
	tagHandler := handler.NewTagHandler(deps.Tags)

	verify := middleware.VerifyToken(deps.Tokens, deps.Sessions)
	requireAdmin := middleware.RequireAdmin()
	requireAuthor := middleware.RequireAuthor()

	api := e.Group("/api")

	// --- Users ---
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.RefreshToken)
	users.POST("/logout", authHandler.Logout, verify)
	users.PUT("/update", authHandler.Update, verify)
	users.DELETE("/delete", authHandler.Delete, verify)
	users.GET("/profile", authHandler.Profile, verify)
	users.GET("/", authHandler.List, verify, requireAdmin)
	users.PATCH("/:id/role", authHandler.ChangeRole, verify, middleware.RBAC(domain.RoleAdmin))

	// --- Authors ---
	authors := api.Group("/authors", verify)
	authors.POST("/create", authorHandler.Create)
	authors.GET("/profile", authorHandler.Profile, requireAuthor)

	// --- Posts ---
	posts := api.Group("/posts")
	posts.GET("/", postHandler.ListPublished)
	posts.GET("/all", postHandler.ListAll, verify, requireAdmin)
	posts.GET("/authorPost", postHandler.ListMine, verify, requireAuthor)
	posts.POST("/create", postHandler.Create, verify, requireAuthor)
	posts.PATCH("/:id/publish", postHandler.Publish, verify, requireAuthor)

	// --- Tags ---
	tags := api.Group("/tags")
	tags.GET("/", tagHandler.List)
	tags.POST("/create", tagHandler.Create, verify, requireAuthor)
	tags.GET("/:tagName/posts", tagHandler.ListPosts)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness) // readiness – are dependencies up?
	}

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
