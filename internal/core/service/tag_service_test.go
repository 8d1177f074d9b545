package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

func TestCreateTag(t *testing.T) {
	tests := []struct {
		name    string
		in      ports.CreateTagInput
		wantErr error
	}{
		{"ok", ports.CreateTagInput{Name: "Databases", Slug: "DB"}, nil},
		{"empty name", ports.CreateTagInput{Name: " ", Slug: "db"}, domain.ErrTagNameRequired},
		{"empty slug", ports.CreateTagInput{Name: "Databases", Slug: ""}, domain.ErrTagSlugRequired},
		{"duplicate slug", ports.CreateTagInput{Name: "Golang", Slug: "go"}, domain.ErrTagExists},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewTagService(newStubTagRepo("go"), newStubPostRepo(), zerolog.Nop())
			tag, err := svc.Create(context.Background(), tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && tag.Slug != "db" {
				t.Errorf("slug: want db, got %s", tag.Slug)
			}
		})
	}
}

func TestListTagPosts(t *testing.T) {
	posts := newStubPostRepo()
	posts.Create(context.Background(), &domain.Post{ID: "p1", Published: true, Tags: []string{"go"}})
	posts.Create(context.Background(), &domain.Post{ID: "p2", Published: false, Tags: []string{"go"}})
	posts.Create(context.Background(), &domain.Post{ID: "p3", Published: true, Tags: []string{"web"}})
	svc := NewTagService(newStubTagRepo("go", "web"), posts, zerolog.Nop())

	got, err := svc.ListPosts(context.Background(), "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("want [p1], got %v", got)
	}

	if _, err := svc.ListPosts(context.Background(), "rust"); !errors.Is(err, domain.ErrTagNotFound) {
		t.Errorf("unknown tag: want ErrTagNotFound, got %v", err)
	}
}
