package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/portfolio/internal/content"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectTitleRequired  = errors.New("project title is required")
	ErrProjectVariantInvalid = errors.New("project variant is invalid")
	ErrProjectExists         = errors.New("project id already exists")
)

// ProjectService 管理作品集条目。
type ProjectService struct {
	store  *repository.Store
	logger *zap.Logger
}

// ProjectInput carries admin-supplied fields. Nil pointers are left untouched on update.
// ID is honoured on create only, so reserved IDs such as ecommerce_v2 can be stored.
type ProjectInput struct {
	ID          string
	Title       *string
	Description *string
	ImageURL    *string
	Details     *string
	LinkURL     *string
	CodeURL     *string
	Variant     *string
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(store *repository.Store, logger *zap.Logger) *ProjectService {
	return &ProjectService{store: store, logger: orNop(logger)}
}

// List returns stored projects, newest first. On failure the slice is empty, never nil.
func (s *ProjectService) List(ctx context.Context) ([]db.Project, error) {
	return s.store.Projects.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{{Field: "created_at", Desc: true}},
	})
}

// Display returns the reconciled list shown on the site. A failed read is
// logged and treated as an empty store, so the synthetic demo still appears.
func (s *ProjectService) Display(ctx context.Context) []db.Project {
	raw, err := s.List(ctx)
	if err != nil {
		s.logger.Warn("list projects failed, showing defaults", zap.Error(err))
	}
	return content.ReconcileProjects(raw)
}

// Get fetches one stored project.
func (s *ProjectService) Get(ctx context.Context, id string) (*db.Project, error) {
	project, err := s.store.Projects.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrProjectNotFound)
	}
	return &project, nil
}

// Create stores a new project. Without an explicit variant the title rules decide.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*db.Project, error) {
	title, _ := trimmed(input.Title)
	if title == "" {
		return nil, ErrProjectTitleRequired
	}

	id := strings.TrimSpace(input.ID)
	if taken, err := idExists(ctx, s.store.Projects, id); err != nil {
		return nil, fmt.Errorf("check project id: %w", err)
	} else if taken {
		return nil, ErrProjectExists
	}

	project := db.Project{Base: db.Base{ID: id}, Title: title}
	project.Description, _ = trimmed(input.Description)
	project.ImageURL, _ = trimmed(input.ImageURL)
	project.Details, _ = trimmed(input.Details)
	project.LinkURL, _ = trimmed(input.LinkURL)
	project.CodeURL, _ = trimmed(input.CodeURL)

	variant, err := resolveVariant(input.Variant, project)
	if err != nil {
		return nil, err
	}
	project.Variant = string(variant)

	if err := s.store.Projects.Insert(ctx, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

// Update applies a partial update. A stored variant is kept when the title or
// description changes; the title rules run again only for rows stored without
// a variant, or when the request sends an empty variant.
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectInput) (*db.Project, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	next := *current
	if title, ok := trimmed(input.Title); ok {
		if title == "" {
			return nil, ErrProjectTitleRequired
		}
		fields["title"] = title
		next.Title = title
	}
	if description, ok := trimmed(input.Description); ok {
		fields["description"] = description
		next.Description = description
	}
	if imageURL, ok := trimmed(input.ImageURL); ok {
		fields["image_url"] = imageURL
	}
	if details, ok := trimmed(input.Details); ok {
		fields["details"] = details
	}
	if linkURL, ok := trimmed(input.LinkURL); ok {
		fields["link_url"] = linkURL
	}
	if codeURL, ok := trimmed(input.CodeURL); ok {
		fields["code_url"] = codeURL
	}

	// 已保存的 variant 不随文案改动变化；只有历史空值或显式传入空串时重新推断
	textChanged := next.Title != current.Title || next.Description != current.Description
	if input.Variant != nil || (textChanged && current.Variant == "") {
		next.Variant = ""
		variant, err := resolveVariant(input.Variant, next)
		if err != nil {
			return nil, err
		}
		fields["variant"] = string(variant)
	}

	if len(fields) == 0 {
		return current, nil
	}
	if err := s.store.Projects.Update(ctx, id, fields); err != nil {
		return nil, mapNotFound(err, ErrProjectNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes a project permanently.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.store.Projects.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrProjectNotFound)
	}
	return nil
}

// BackfillVariants 为没有 variant 的历史数据写入规则推断结果，返回更新的条数。
func (s *ProjectService) BackfillVariants(ctx context.Context) (int, error) {
	rows, err := s.store.Projects.List(ctx, repository.ListOptions{
		Filter: map[string]interface{}{"variant": ""},
	})
	if err != nil {
		return 0, fmt.Errorf("list untagged projects: %w", err)
	}

	updated := 0
	for _, p := range rows {
		variant := content.Classify(p)
		if err := s.store.Projects.Update(ctx, p.ID, map[string]interface{}{"variant": string(variant)}); err != nil {
			return updated, fmt.Errorf("backfill project %s: %w", p.ID, err)
		}
		updated++
	}
	if updated > 0 {
		s.logger.Info("backfilled project variants", zap.Int("count", updated))
	}
	return updated, nil
}

func resolveVariant(raw *string, p db.Project) (content.Variant, error) {
	if value, ok := trimmed(raw); ok && value != "" {
		variant, valid := content.ParseVariant(value)
		if !valid {
			return "", ErrProjectVariantInvalid
		}
		p.Variant = string(variant)
	}
	return content.Classify(p), nil
}
