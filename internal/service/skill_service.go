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
	ErrSkillNotFound     = errors.New("skill not found")
	ErrSkillNameRequired = errors.New("skill name is required")
	ErrSkillLevelInvalid = errors.New("skill level must be between 0 and 100")
	ErrSkillExists       = errors.New("skill id already exists")
)

// SkillService manages the tech stack entries.
type SkillService struct {
	store  *repository.Store
	logger *zap.Logger
}

// SkillInput represents fields accepted when creating or updating a skill.
// ID is honoured on create only.
type SkillInput struct {
	ID       string
	Name     *string
	Category *string
	IconURL  *string
	Level    *int
}

// NewSkillService creates a SkillService instance.
func NewSkillService(store *repository.Store, logger *zap.Logger) *SkillService {
	return &SkillService{store: store, logger: orNop(logger)}
}

// List returns stored skills ordered by level, highest first.
func (s *SkillService) List(ctx context.Context) ([]db.Skill, error) {
	return s.store.Skills.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{{Field: "level", Desc: true}, {Field: "name"}},
	})
}

// Display 返回分组后的技能列表，读取失败时退回内置目录。
func (s *SkillService) Display(ctx context.Context) content.SkillCatalog {
	raw, err := s.List(ctx)
	if err != nil {
		s.logger.Warn("list skills failed, showing fallback catalog", zap.Error(err))
	}
	return content.ReconcileSkills(raw)
}

// Create stores a new skill. An empty category is kept empty and shown under frontend.
func (s *SkillService) Create(ctx context.Context, input SkillInput) (*db.Skill, error) {
	name, _ := trimmed(input.Name)
	if name == "" {
		return nil, ErrSkillNameRequired
	}

	id := strings.TrimSpace(input.ID)
	if taken, err := idExists(ctx, s.store.Skills, id); err != nil {
		return nil, fmt.Errorf("check skill id: %w", err)
	} else if taken {
		return nil, ErrSkillExists
	}

	skill := db.Skill{Base: db.Base{ID: id}, Name: name}
	skill.Category, _ = trimmed(input.Category)
	skill.IconURL, _ = trimmed(input.IconURL)
	if input.Level != nil {
		if !validLevel(*input.Level) {
			return nil, ErrSkillLevelInvalid
		}
		skill.Level = *input.Level
	}

	if err := s.store.Skills.Insert(ctx, &skill); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &skill, nil
}

// Update applies a partial update.
func (s *SkillService) Update(ctx context.Context, id string, input SkillInput) (*db.Skill, error) {
	fields := make(map[string]interface{})
	if name, ok := trimmed(input.Name); ok {
		if name == "" {
			return nil, ErrSkillNameRequired
		}
		fields["name"] = name
	}
	if category, ok := trimmed(input.Category); ok {
		fields["category"] = category
	}
	if iconURL, ok := trimmed(input.IconURL); ok {
		fields["icon_url"] = iconURL
	}
	if input.Level != nil {
		if !validLevel(*input.Level) {
			return nil, ErrSkillLevelInvalid
		}
		fields["level"] = *input.Level
	}

	if len(fields) > 0 {
		if err := s.store.Skills.Update(ctx, id, fields); err != nil {
			return nil, mapNotFound(err, ErrSkillNotFound)
		}
	}

	skill, err := s.store.Skills.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSkillNotFound)
	}
	return &skill, nil
}

// Delete removes a skill permanently.
func (s *SkillService) Delete(ctx context.Context, id string) error {
	if err := s.store.Skills.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrSkillNotFound)
	}
	return nil
}

func validLevel(level int) bool {
	return level >= 0 && level <= 100
}
