package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/middleware"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// principal returns the caller attached by the VerifyToken middleware.
// Handlers mounted without it fail closed.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validators. Both failures surface as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// auditor stamps request metadata onto auth events before handing them to
// the sink. A nil sink discards events.
type auditor struct {
	sink ports.AuditSink
}

func (a auditor) emit(c echo.Context, typ domain.AuthEventType, userID, username, detail string) {
	if a.sink == nil {
		return
	}
	a.sink.Enqueue(domain.AuthEvent{
		Type:      typ,
		UserID:    userID,
		Username:  username,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
