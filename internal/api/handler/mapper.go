package handler

import (
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	in := ports.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
	}
	if req.Profile != nil {
		in.Profile = &domain.ProfilePatch{
			Avatar:    req.Profile.Avatar,
			Interests: req.Profile.Interests,
		}
	}
	return in
}

func toCreateAuthorInput(req createAuthorRequest) ports.CreateAuthorInput {
	return ports.CreateAuthorInput{Bio: req.Bio, Website: req.Website}
}

func toCreatePostInput(req createPostRequest) ports.CreatePostInput {
	return ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
}

func toCreateTagInput(req createTagRequest) ports.CreateTagInput {
	return ports.CreateTagInput{Name: req.Name, Slug: req.Slug}
}

// --- Service result → HTTP response ---

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
