package handler

import "github.com/inkwell/blog-api/internal/core/domain"

// messageResponse is returned by operations that only acknowledge success.
type messageResponse struct {
	Msg string `json:"msg"`
}

// --- Users ---

type registerRequest struct {
	Name            string `json:"name"     validate:"required,notblank,max=100"`
	Username        string `json:"username" validate:"required,notblank,max=50"`
	Email           string `json:"email"    validate:"required,email,max=255"`
	Password        string `json:"pass"     validate:"required,maxbytes=72"`
	ConfirmPassword string `json:"cpass"    validate:"required,maxbytes=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"pass"     validate:"required"`
}

type profileRequest struct {
	Avatar    *string   `json:"avatar"    validate:"omitnil,url,max=2048"`
	Interests *[]string `json:"interests" validate:"omitnil,max=50,dive,notblank,max=50"`
}

// updateUserRequest is a partial update: absent fields stay untouched, but a
// supplied field must be well formed.
type updateUserRequest struct {
	Name     *string         `json:"name"    validate:"omitnil,notblank,max=100"`
	Password *string         `json:"pass"    validate:"omitnil,min=1,maxbytes=72"`
	Profile  *profileRequest `json:"profile" validate:"omitnil"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user author admin"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

// --- Authors ---

type createAuthorRequest struct {
	Bio     *string `json:"bio"     validate:"omitnil,max=2000"`
	Website *string `json:"website" validate:"omitnil,url,max=255"`
}

type authorResponse struct {
	Author *domain.AuthorProfile `json:"author"`
}

type createAuthorResponse struct {
	Msg    string                `json:"msg"`
	Author *domain.AuthorProfile `json:"author"`
}

// --- Posts ---

// Emptiness of title, content, name and slug is checked by the services so
// the error codes stay specific.
type createPostRequest struct {
	Title   string   `json:"title"   validate:"max=255"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"    validate:"max=20,dive,notblank,max=64"`
}

type createPostResponse struct {
	Msg  string       `json:"msg"`
	Post *domain.Post `json:"post"`
}

type postResponse struct {
	Post *domain.Post `json:"post"`
}

type publishedPostsResponse struct {
	PublishedPosts []*domain.Post `json:"publishedPosts"`
}

type authorPostsResponse struct {
	AuthorPosts []*domain.Post `json:"authorPosts"`
}

type postsResponse struct {
	Posts []*domain.Post `json:"posts"`
}

// --- Tags ---

type createTagRequest struct {
	Name string `json:"name" validate:"max=64"`
	Slug string `json:"slug" validate:"max=64"`
}

type createTagResponse struct {
	Msg string      `json:"msg"`
	Tag *domain.Tag `json:"tag"`
}

type tagsResponse struct {
	Tags []*domain.Tag `json:"tags"`
}
