package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

var (
	ErrBlogNotFound      = errors.New("blog post not found")
	ErrBlogTitleRequired = errors.New("blog title is required")
	ErrBlogExists        = errors.New("blog post id already exists")
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// BlogService 负责博客文章的读写与渲染。
type BlogService struct {
	store  *repository.Store
	logger *zap.Logger
}

// BlogInput represents fields accepted when creating or updating a post.
// ID is honoured on create only.
type BlogInput struct {
	ID          string
	Title       *string
	Excerpt     *string
	Content     *string
	ImageURL    *string
	IsPublished *bool
}

// BlogView is a post with its content rendered to sanitized HTML.
type BlogView struct {
	db.BlogPost
	HTML string `json:"html"`
}

// NewBlogService creates a BlogService instance.
func NewBlogService(store *repository.Store, logger *zap.Logger) *BlogService {
	return &BlogService{store: store, logger: orNop(logger)}
}

// ListPublished returns published posts, newest first.
func (s *BlogService) ListPublished(ctx context.Context) ([]db.BlogPost, error) {
	return s.store.Blogs.List(ctx, repository.ListOptions{
		Filter:  map[string]interface{}{"is_published": true},
		OrderBy: []repository.Order{{Field: "created_at", Desc: true}},
	})
}

// ListAll returns every post including drafts, newest first.
func (s *BlogService) ListAll(ctx context.Context) ([]db.BlogPost, error) {
	return s.store.Blogs.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{{Field: "created_at", Desc: true}},
	})
}

// Get fetches one post. With publishedOnly set, drafts are reported as not found.
func (s *BlogService) Get(ctx context.Context, id string, publishedOnly bool) (*db.BlogPost, error) {
	post, err := s.store.Blogs.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBlogNotFound)
	}
	if publishedOnly && !post.IsPublished {
		return nil, ErrBlogNotFound
	}
	return &post, nil
}

// View returns a published post with rendered HTML.
func (s *BlogService) View(ctx context.Context, id string) (*BlogView, error) {
	post, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	rendered, err := s.Render(post.Content)
	if err != nil {
		return nil, err
	}
	return &BlogView{BlogPost: *post, HTML: rendered}, nil
}

// Create stores a new post.
func (s *BlogService) Create(ctx context.Context, input BlogInput) (*db.BlogPost, error) {
	title, _ := trimmed(input.Title)
	if title == "" {
		return nil, ErrBlogTitleRequired
	}

	id := strings.TrimSpace(input.ID)
	if taken, err := idExists(ctx, s.store.Blogs, id); err != nil {
		return nil, fmt.Errorf("check blog id: %w", err)
	} else if taken {
		return nil, ErrBlogExists
	}

	post := db.BlogPost{Base: db.Base{ID: id}, Title: title}
	post.Excerpt, _ = trimmed(input.Excerpt)
	if input.Content != nil {
		post.Content = *input.Content
	}
	post.ImageURL, _ = trimmed(input.ImageURL)
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}

	if err := s.store.Blogs.Insert(ctx, &post); err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return &post, nil
}

// Update applies a partial update.
func (s *BlogService) Update(ctx context.Context, id string, input BlogInput) (*db.BlogPost, error) {
	fields := make(map[string]interface{})
	if title, ok := trimmed(input.Title); ok {
		if title == "" {
			return nil, ErrBlogTitleRequired
		}
		fields["title"] = title
	}
	if excerpt, ok := trimmed(input.Excerpt); ok {
		fields["excerpt"] = excerpt
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if imageURL, ok := trimmed(input.ImageURL); ok {
		fields["image_url"] = imageURL
	}
	if input.IsPublished != nil {
		fields["is_published"] = *input.IsPublished
	}

	if len(fields) > 0 {
		if err := s.store.Blogs.Update(ctx, id, fields); err != nil {
			return nil, mapNotFound(err, ErrBlogNotFound)
		}
	}
	return s.Get(ctx, id, false)
}

// Delete removes a post permanently.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.store.Blogs.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrBlogNotFound)
	}
	return nil
}

// Render converts markdown into sanitized HTML.
func (s *BlogService) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}
