package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
)

const (
	maxCommentNameLength    = 100
	maxCommentMessageLength = 2000
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentInvalidInput = errors.New("comment name and message are required")
	ErrCommentTooLong      = errors.New("comment is too long")
)

// CommentService 处理留言墙：公开提交，后台置顶、点赞、回复与删除。
type CommentService struct {
	store *repository.Store
}

// NewCommentService creates a CommentService instance.
func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{store: store}
}

// List returns pinned comments first, then newest first.
func (s *CommentService) List(ctx context.Context) ([]db.Comment, error) {
	return s.store.Comments.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{
			{Field: "is_pinned", Desc: true},
			{Field: "created_at", Desc: true},
		},
	})
}

// Submit stores a visitor comment. Public submissions are never marked as the author's.
func (s *CommentService) Submit(ctx context.Context, name, message string) (*db.Comment, error) {
	name, _ = trimmed(&name)
	message, _ = trimmed(&message)
	if name == "" || message == "" {
		return nil, ErrCommentInvalidInput
	}
	if tooLong(name, maxCommentNameLength) || tooLong(message, maxCommentMessageLength) {
		return nil, ErrCommentTooLong
	}

	comment := db.Comment{Name: name, Message: message, IsAuthor: false}
	if err := s.store.Comments.Insert(ctx, &comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// TogglePin flips the pinned flag.
func (s *CommentService) TogglePin(ctx context.Context, id string) (*db.Comment, error) {
	return s.toggle(ctx, id, "is_pinned", func(c db.Comment) bool { return c.IsPinned })
}

// ToggleLike flips the admin-liked flag.
func (s *CommentService) ToggleLike(ctx context.Context, id string) (*db.Comment, error) {
	return s.toggle(ctx, id, "is_liked_by_admin", func(c db.Comment) bool { return c.IsLikedByAdmin })
}

// Reply sets the admin reply; an empty reply clears it.
func (s *CommentService) Reply(ctx context.Context, id, reply string) (*db.Comment, error) {
	reply, _ = trimmed(&reply)
	if tooLong(reply, maxCommentMessageLength) {
		return nil, ErrCommentTooLong
	}
	if err := s.store.Comments.Update(ctx, id, map[string]interface{}{"admin_reply": reply}); err != nil {
		return nil, mapNotFound(err, ErrCommentNotFound)
	}
	return s.get(ctx, id)
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Comments.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrCommentNotFound)
	}
	return nil
}

func (s *CommentService) toggle(ctx context.Context, id, field string, current func(db.Comment) bool) (*db.Comment, error) {
	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Comments.Update(ctx, id, map[string]interface{}{field: !current(*comment)}); err != nil {
		return nil, mapNotFound(err, ErrCommentNotFound)
	}
	return s.get(ctx, id)
}

func (s *CommentService) get(ctx context.Context, id string) (*db.Comment, error) {
	comment, err := s.store.Comments.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCommentNotFound)
	}
	return &comment, nil
}
