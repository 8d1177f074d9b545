package service

import (
	"context"
	"sort"
	"time"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	authorIDs map[string]string // userID -> author profile id
	calls     int               // every method call, reads included
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:      make(map[string]*domain.User),
		authorIDs: make(map[string]string),
	}
}

func (r *stubUserRepo) seed(u *domain.User) {
	r.byID[u.ID] = u
}

func (r *stubUserRepo) clone(u *domain.User) *domain.User {
	c := *u
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		c.RefreshToken = &t
	}
	return &c
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.clone(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.calls++
	for _, u := range r.byID {
		if u.Username == username {
			return r.clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	for _, u := range r.byID {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindPrincipal(_ context.Context, id string) (*domain.Principal, error) {
	r.calls++
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.Principal{UserID: u.ID, Role: u.Role, AuthorID: r.authorIDs[id]}, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.calls++
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, r.clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[u.ID] = r.clone(u)
	return nil
}

func (r *stubUserRepo) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	r.calls++
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	t := *token
	u.RefreshToken = &t
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) error {
	r.calls++
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Profile != nil {
		if u.Profile == nil {
			u.Profile = &domain.UserProfile{ID: "profile-" + id, UserID: id}
		}
		if p.Profile.Avatar != nil {
			u.Profile.Avatar = p.Profile.Avatar
		}
		if p.Profile.Interests != nil {
			u.Profile.Interests = *p.Profile.Interests
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.calls++
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.authorIDs, id)
	return nil
}

// stubSessions records invalidations.
type stubSessions struct {
	invalidated []string
}

func (s *stubSessions) Load(_ context.Context, userID string) (domain.Principal, error) {
	return domain.Principal{UserID: userID, Role: domain.RoleUser}, nil
}

func (s *stubSessions) Invalidate(_ context.Context, userID string) {
	s.invalidated = append(s.invalidated, userID)
}

type stubAuthorRepo struct {
	byID      map[string]*domain.AuthorProfile
	createErr error
}

func newStubAuthorRepo() *stubAuthorRepo {
	return &stubAuthorRepo{byID: make(map[string]*domain.AuthorProfile)}
}

func (r *stubAuthorRepo) FindByID(_ context.Context, id string) (*domain.AuthorProfile, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAuthorProfileNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAuthorRepo) FindByUserID(_ context.Context, userID string) (*domain.AuthorProfile, error) {
	for _, a := range r.byID {
		if a.UserID == userID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAuthorProfileNotFound
}

func (r *stubAuthorRepo) Create(_ context.Context, a *domain.AuthorProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

type stubPostRepo struct {
	byID      map[string]*domain.Post
	order     []string // insertion order, oldest first
	createErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.byID[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) SetPublished(_ context.Context, id string, published bool) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Published = published
	return nil
}

func (r *stubPostRepo) filter(keep func(*domain.Post) bool) []*domain.Post {
	var out []*domain.Post
	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.byID[r.order[i]]
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out
}

func (r *stubPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	return r.filter(func(*domain.Post) bool { return true }), nil
}

func (r *stubPostRepo) ListPublished(_ context.Context) ([]*domain.Post, error) {
	return r.filter(func(p *domain.Post) bool { return p.Published }), nil
}

func (r *stubPostRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return r.filter(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *stubPostRepo) ListPublishedByTag(_ context.Context, slug string) ([]*domain.Post, error) {
	return r.filter(func(p *domain.Post) bool {
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

type stubTagRepo struct {
	bySlug map[string]*domain.Tag
}

func newStubTagRepo(slugs ...string) *stubTagRepo {
	r := &stubTagRepo{bySlug: make(map[string]*domain.Tag)}
	for _, s := range slugs {
		r.bySlug[s] = &domain.Tag{ID: "tag-" + s, Name: s, Slug: s}
	}
	return r
}

func (r *stubTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	out := make([]*domain.Tag, 0, len(r.bySlug))
	for _, t := range r.bySlug {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubTagRepo) FindBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	t, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrTagNotFound
	}
	return t, nil
}

func (r *stubTagRepo) FindBySlugs(_ context.Context, slugs []string) ([]*domain.Tag, error) {
	var out []*domain.Tag
	for _, s := range slugs {
		if t, ok := r.bySlug[s]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTagRepo) Create(_ context.Context, t *domain.Tag) error {
	for _, existing := range r.bySlug {
		if existing.Slug == t.Slug || existing.Name == t.Name {
			return domain.ErrTagExists
		}
	}
	r.bySlug[t.Slug] = t
	return nil
}

type stubAuditRepo struct {
	inserted  []*domain.AuthEvent
	insertErr error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

// Compile-time interface checks.
var (
	_ ports.UserRepository   = (*stubUserRepo)(nil)
	_ ports.SessionLoader    = (*stubSessions)(nil)
	_ ports.AuthorRepository = (*stubAuthorRepo)(nil)
	_ ports.PostRepository   = (*stubPostRepo)(nil)
	_ ports.TagRepository    = (*stubTagRepo)(nil)
	_ ports.AuditRepository  = (*stubAuditRepo)(nil)
)
