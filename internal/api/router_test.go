package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/service"
	"github.com/inkwell/blog-api/internal/infrastructure/queue"
)

// --- In-memory stores ---

type memStore struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	authors map[string]*domain.AuthorProfile
	posts   map[string]*domain.Post
	tags    map[string]*domain.Tag
	events  []domain.AuthEvent
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*domain.User{},
		authors: map[string]*domain.AuthorProfile{},
		posts:   map[string]*domain.Post{},
		tags:    map[string]*domain.Tag{},
	}
}

type memUsers struct{ *memStore }

func (m memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	for _, a := range m.authors {
		if a.UserID == id {
			ac := *a
			cp.AuthorProfile = &ac
		}
	}
	return &cp, nil
}

func (m memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m memUsers) FindPrincipal(_ context.Context, id string) (*domain.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	p := &domain.Principal{UserID: u.ID, Role: u.Role}
	for _, a := range m.authors {
		if a.UserID == id {
			p.AuthorID = a.ID
		}
	}
	return p, nil
}

func (m memUsers) List(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m memUsers) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (m memUsers) Update(_ context.Context, id string, patch domain.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Profile != nil {
		if u.Profile == nil {
			u.Profile = &domain.UserProfile{ID: "prof-" + id, UserID: id}
		}
		if patch.Profile.Avatar != nil {
			u.Profile.Avatar = patch.Profile.Avatar
		}
		if patch.Profile.Interests != nil {
			u.Profile.Interests = *patch.Profile.Interests
		}
	}
	return nil
}

func (m memUsers) UpdateRole(_ context.Context, id string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	for aid, a := range m.authors {
		if a.UserID == id {
			delete(m.authors, aid)
		}
	}
	return nil
}

type memAuthors struct{ *memStore }

func (m memAuthors) FindByID(_ context.Context, id string) (*domain.AuthorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.authors[id]
	if !ok {
		return nil, domain.ErrAuthorProfileNotFound
	}
	cp := *a
	if u, ok := m.users[a.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp, nil
}

func (m memAuthors) FindByUserID(_ context.Context, userID string) (*domain.AuthorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.authors {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAuthorProfileNotFound
}

func (m memAuthors) Create(_ context.Context, author *domain.AuthorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *author
	m.authors[author.ID] = &cp
	return nil
}

type memPosts struct{ *memStore }

func (m memPosts) Create(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m memPosts) FindByID(_ context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m memPosts) SetPublished(_ context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Published = published
	return nil
}

func (m memPosts) filter(keep func(*domain.Post) bool) []*domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Post
	for _, p := range m.posts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m memPosts) ListAll(_ context.Context) ([]*domain.Post, error) {
	return m.filter(func(*domain.Post) bool { return true }), nil
}

func (m memPosts) ListPublished(_ context.Context) ([]*domain.Post, error) {
	return m.filter(func(p *domain.Post) bool { return p.Published }), nil
}

func (m memPosts) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return m.filter(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (m memPosts) ListPublishedByTag(_ context.Context, slug string) ([]*domain.Post, error) {
	return m.filter(func(p *domain.Post) bool {
		if !p.Published {
			return false
		}
		for _, t := range p.Tags {
			if t == slug {
				return true
			}
		}
		return false
	}), nil
}

type memTags struct{ *memStore }

func (m memTags) List(_ context.Context) ([]*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m memTags) FindBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[slug]
	if !ok {
		return nil, domain.ErrTagNotFound
	}
	cp := *t
	return &cp, nil
}

func (m memTags) FindBySlugs(_ context.Context, slugs []string) ([]*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Tag
	for _, s := range slugs {
		if t, ok := m.tags[s]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memTags) Create(_ context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Slug == tag.Slug || t.Name == tag.Name {
			return domain.ErrTagExists
		}
	}
	cp := *tag
	m.tags[tag.Slug] = &cp
	return nil
}

type memAudit struct{ *memStore }

func (m memAudit) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

// --- Harness ---

type testServer struct {
	t          *testing.T
	store      *memStore
	handler    http.Handler
	dispatcher *queue.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore()

	users := memUsers{store}
	sessions := service.NewSessionService(users, nil, log)
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		AccessTTL:     time.Minute,
		RefreshSecret: "refresh-secret-for-tests",
		RefreshTTL:    time.Hour,
		Issuer:        "blog-api-test",
	})

	dispatcher := queue.NewDispatcher(2, service.NewAuditService(memAudit{store}, log), log)
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)

	e := NewRouter(Dependencies{
		Auth:     service.NewAuthService(users, tokens, service.NewBcryptHasher(bcrypt.MinCost), sessions, log),
		Authors:  service.NewAuthorService(memAuthors{store}, sessions, log),
		Posts:    service.NewPostService(memPosts{store}, memTags{store}, log),
		Tags:     service.NewTagService(memTags{store}, memPosts{store}, log),
		Tokens:   tokens,
		Sessions: sessions,
		Audit:    dispatcher,
		Cookie:   handler.CookieConfig{Secure: true, MaxAge: time.Hour},
		Logger:   log,
	})
	return &testServer{t: t, store: store, handler: e, dispatcher: dispatcher}
}

type call struct {
	method string
	path   string
	body   string
	token  string
	cookie string
}

func (s *testServer) do(c call) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: handler.RefreshCookieName, Value: c.cookie})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) register(username string) {
	s.t.Helper()
	rec := s.do(call{method: http.MethodPost, path: "/api/users/register", body: `{"name":"` + username +
		`","username":"` + username + `","email":"` + username + `@example.com","pass":"P@ss1","cpass":"P@ss1"}`})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

// login returns the access token and the refresh cookie value.
func (s *testServer) login(username string) (string, string) {
	s.t.Helper()
	rec := s.do(call{method: http.MethodPost, path: "/api/users/login", body: `{"username":"` + username + `","pass":"P@ss1"}`})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var refresh string
	for _, c := range rec.Result().Cookies() {
		if c.Name == handler.RefreshCookieName {
			refresh = c.Value
		}
	}
	require.NotEmpty(s.t, refresh)
	return body(s.t, rec)["accessToken"].(string), refresh
}

func (s *testServer) userID(username string) string {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, u := range s.store.users {
		if u.Username == username {
			return u.ID
		}
	}
	s.t.Fatalf("no user %s", username)
	return ""
}

func (s *testServer) storedRefresh(username string) *string {
	id := s.userID(username)
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.users[id].RefreshToken
}

func (s *testServer) promote(username string, role domain.Role) {
	id := s.userID(username)
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.users[id].Role = role
}

// --- Scenarios ---

func TestRouter_RegisterTwiceConflicts(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	rec := s.do(call{method: http.MethodPost, path: "/api/users/register",
		body: `{"name":"A","username":"alice","email":"other@example.com","pass":"x","cpass":"x"}`})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username_taken", body(t, rec)["code"])

	rec = s.do(call{method: http.MethodPost, path: "/api/users/register",
		body: `{"name":"A","username":"alice2","email":"alice@example.com","pass":"x","cpass":"x"}`})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_taken", body(t, rec)["code"])
}

func TestRouter_RegisterMismatchNeverStores(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(call{method: http.MethodPost, path: "/api/users/register",
		body: `{"name":"A","username":"alice","email":"a@example.com","pass":"one","cpass":"two"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password_mismatch", body(t, rec)["code"])
	assert.Empty(t, s.store.users)
}

func TestRouter_LoginRefreshProfile(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	access, refresh := s.login("alice")

	stored := s.storedRefresh("alice")
	require.NotNil(t, stored)
	assert.Equal(t, refresh, *stored)

	rec := s.do(call{method: http.MethodPost, path: "/api/users/refresh-token", cookie: refresh})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fresh := body(t, rec)["accessToken"].(string)
	assert.NotEqual(t, access, fresh)

	rec = s.do(call{method: http.MethodGet, path: "/api/users/profile", token: fresh})
	require.Equal(t, http.StatusOK, rec.Code)
	user := body(t, rec)["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, rec.Body.String(), "P@ss1")
	assert.NotContains(t, rec.Body.String(), refresh)
}

func TestRouter_ProfileWithoutToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(call{method: http.MethodGet, path: "/api/users/profile"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_missing", body(t, rec)["code"])

	rec = s.do(call{method: http.MethodGet, path: "/api/users/profile", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_invalid", body(t, rec)["code"])
}

func TestRouter_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	_, refresh := s.login("alice")

	rec := s.do(call{method: http.MethodGet, path: "/api/users/profile", token: refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	access, refresh := s.login("alice")

	rec := s.do(call{method: http.MethodPost, path: "/api/users/logout", token: access, cookie: refresh + "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh_token_invalid", body(t, rec)["code"])
	require.NotNil(t, s.storedRefresh("alice"), "tampered logout must leave the stored token")

	rec = s.do(call{method: http.MethodPost, path: "/api/users/logout", token: access})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, s.storedRefresh("alice"))

	rec = s.do(call{method: http.MethodPost, path: "/api/users/logout", token: access, cookie: refresh})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, s.storedRefresh("alice"))

	rec = s.do(call{method: http.MethodPost, path: "/api/users/refresh-token", cookie: refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh_token_invalid", body(t, rec)["code"])
}

func TestRouter_DeleteRevokesAccess(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	access, _ := s.login("alice")

	rec := s.do(call{method: http.MethodDelete, path: "/api/users/delete", token: access})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(call{method: http.MethodGet, path: "/api/users/profile", token: access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user_not_found", body(t, rec)["code"])
}

func TestRouter_UpdateUser(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	access, _ := s.login("alice")

	rec := s.do(call{method: http.MethodPut, path: "/api/users/update", token: access,
		body: `{"name":"Alice Liddell","pass":"n3w","profile":{"interests":["go"]}}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := body(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice Liddell", user["name"])
	assert.Equal(t, []any{"go"}, user["profile"].(map[string]any)["interests"])

	rec = s.do(call{method: http.MethodPost, path: "/api/users/login", body: `{"username":"alice","pass":"P@ss1"}`})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(call{method: http.MethodPost, path: "/api/users/login", body: `{"username":"alice","pass":"n3w"}`})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	s.register("root")
	s.promote("root", domain.RoleAdmin)
	userToken, _ := s.login("alice")
	adminToken, _ := s.login("root")

	rec := s.do(call{method: http.MethodGet, path: "/api/users/", token: userToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(call{method: http.MethodGet, path: "/api/users/", token: adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body(t, rec)["users"], 2)

	rec = s.do(call{method: http.MethodGet, path: "/api/posts/all", token: userToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(call{method: http.MethodPatch, path: "/api/users/" + s.userID("alice") + "/role", token: userToken, body: `{"role":"admin"}`})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(call{method: http.MethodPatch, path: "/api/users/missing/role", token: adminToken, body: `{"role":"author"}`})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AuthorPublishingFlow(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	s.register("root")
	s.promote("root", domain.RoleAdmin)
	adminToken, _ := s.login("root")
	access, _ := s.login("alice")

	// A plain user cannot elevate.
	rec := s.do(call{method: http.MethodPost, path: "/api/authors/create", token: access, body: `{}`})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(call{method: http.MethodPatch, path: "/api/users/" + s.userID("alice") + "/role", token: adminToken, body: `{"role":"author"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Author role without a profile.
	rec = s.do(call{method: http.MethodGet, path: "/api/posts/authorPost", token: access})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "author_profile_missing", body(t, rec)["code"])

	rec = s.do(call{method: http.MethodPost, path: "/api/authors/create", token: access, body: `{"bio":"writes things"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(call{method: http.MethodPost, path: "/api/authors/create", token: access, body: `{}`})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(call{method: http.MethodGet, path: "/api/authors/profile", token: access})
	require.Equal(t, http.StatusOK, rec.Code)
	author := body(t, rec)["author"].(map[string]any)
	assert.Equal(t, "writes things", author["bio"])
	assert.Equal(t, "alice", author["user"].(map[string]any)["username"])

	rec = s.do(call{method: http.MethodPost, path: "/api/tags/create", token: access, body: `{"name":"Go","slug":"Go"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(call{method: http.MethodPost, path: "/api/tags/create", token: access, body: `{"name":"Golang","slug":"go"}`})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(call{method: http.MethodPost, path: "/api/posts/create", token: access, body: `{"title":"Hi","content":"Body","tags":["rust"]}`})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(call{method: http.MethodPost, path: "/api/posts/create", token: access, body: `{"title":"Hi","content":"Body","tags":["go"]}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postID := body(t, rec)["post"].(map[string]any)["id"].(string)

	rec = s.do(call{method: http.MethodGet, path: "/api/posts/"})
	assert.Empty(t, body(t, rec)["publishedPosts"])

	rec = s.do(call{method: http.MethodPatch, path: "/api/posts/" + postID + "/publish", token: access})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(call{method: http.MethodGet, path: "/api/posts/"})
	assert.Len(t, body(t, rec)["publishedPosts"], 1)
	rec = s.do(call{method: http.MethodGet, path: "/api/tags/go/posts"})
	assert.Len(t, body(t, rec)["posts"], 1)
	rec = s.do(call{method: http.MethodGet, path: "/api/tags/rust/posts"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(call{method: http.MethodGet, path: "/api/posts/authorPost", token: access})
	assert.Len(t, body(t, rec)["authorPosts"], 1)
	rec = s.do(call{method: http.MethodGet, path: "/api/posts/all", token: adminToken})
	assert.Len(t, body(t, rec)["posts"], 1)
}

func TestRouter_AuditTrail(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	s.login("alice")
	s.do(call{method: http.MethodPost, path: "/api/users/login", body: `{"username":"alice","pass":"wrong"}`})
	s.dispatcher.Stop()

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	types := map[domain.AuthEventType]int{}
	for _, e := range s.store.events {
		types[e.Type]++
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, map[domain.AuthEventType]int{
		domain.EventRegistered:  1,
		domain.EventLogin:       1,
		domain.EventLoginFailed: 1,
	}, types)
}

func TestRouter_Operational(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(call{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog_http_requests_total")

	rec = s.do(call{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body(t, rec)["code"])
}
