package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
)

var (
	ErrMessageNotFound     = errors.New("message not found")
	ErrMessageInvalidInput = errors.New("name, email and message are required")
	ErrMessageInvalidEmail = errors.New("email address is invalid")
)

// MessageService stores contact form submissions.
type MessageService struct {
	store *repository.Store
}

// MessageInput is one contact form submission.
type MessageInput struct {
	Name    string
	Email   string
	Message string
}

// NewMessageService creates a MessageService instance.
func NewMessageService(store *repository.Store) *MessageService {
	return &MessageService{store: store}
}

// Submit validates and stores a message.
func (s *MessageService) Submit(ctx context.Context, input MessageInput) (*db.ContactMessage, error) {
	name, _ := trimmed(&input.Name)
	email, _ := trimmed(&input.Email)
	body, _ := trimmed(&input.Message)
	if name == "" || email == "" || body == "" {
		return nil, ErrMessageInvalidInput
	}
	if tooLong(name, 100) || tooLong(body, 5000) {
		return nil, ErrMessageInvalidInput
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || tooLong(email, 255) {
		return nil, ErrMessageInvalidEmail
	}

	message := db.ContactMessage{Name: name, Email: email, Message: body}
	if err := s.store.Messages.Insert(ctx, &message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &message, nil
}

// List returns messages newest first.
func (s *MessageService) List(ctx context.Context) ([]db.ContactMessage, error) {
	return s.store.Messages.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{{Field: "created_at", Desc: true}},
	})
}

// Delete removes a message permanently.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.store.Messages.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrMessageNotFound)
	}
	return nil
}
