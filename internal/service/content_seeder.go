package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/portfolio/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedDocument is the YAML layout accepted by ContentSeeder.
type SeedDocument struct {
	Projects []SeedProject `yaml:"projects"`
	Skills   []SeedSkill   `yaml:"skills"`
	Blogs    []SeedBlog    `yaml:"blogs"`
}

type SeedProject struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Details     string `yaml:"details"`
	LinkURL     string `yaml:"link_url"`
	CodeURL     string `yaml:"code_url"`
	Variant     string `yaml:"variant"`
}

type SeedSkill struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	IconURL  string `yaml:"icon_url"`
	Level    int    `yaml:"level"`
}

type SeedBlog struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Excerpt     string `yaml:"excerpt"`
	Content     string `yaml:"content"`
	ImageURL    string `yaml:"image_url"`
	IsPublished bool   `yaml:"is_published"`
}

// SeedResult counts inserted and skipped rows.
type SeedResult struct {
	Inserted int
	Skipped  int
}

// ContentSeeder 从 YAML 文档导入作品、技能与文章；已存在的 ID 会被跳过。
type ContentSeeder struct {
	store  *repository.Store
	logger *zap.Logger
}

// NewContentSeeder creates a ContentSeeder instance.
func NewContentSeeder(store *repository.Store, logger *zap.Logger) *ContentSeeder {
	return &ContentSeeder{store: store, logger: orNop(logger)}
}

// LoadFile seeds from a YAML file on disk.
func (s *ContentSeeder) LoadFile(ctx context.Context, path string) (SeedResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()
	return s.Load(ctx, file)
}

// Load decodes a seed document and inserts it in one transaction.
func (s *ContentSeeder) Load(ctx context.Context, r io.Reader) (SeedResult, error) {
	var doc SeedDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return SeedResult{}, fmt.Errorf("decode seed document: %w", err)
	}

	var result SeedResult
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result = SeedResult{}
		store := s.store.WithDB(tx)
		projects := NewProjectService(store, s.logger)
		skills := NewSkillService(store, s.logger)
		blogs := NewBlogService(store, s.logger)

		for _, p := range doc.Projects {
			if exists, err := idExists(ctx, store.Projects, p.ID); err != nil {
				return err
			} else if exists {
				result.Skipped++
				continue
			}
			if _, err := projects.Create(ctx, ProjectInput{
				ID:          p.ID,
				Title:       &p.Title,
				Description: &p.Description,
				ImageURL:    &p.ImageURL,
				Details:     &p.Details,
				LinkURL:     &p.LinkURL,
				CodeURL:     &p.CodeURL,
				Variant:     &p.Variant,
			}); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
			result.Inserted++
		}

		for _, sk := range doc.Skills {
			if exists, err := idExists(ctx, store.Skills, sk.ID); err != nil {
				return err
			} else if exists {
				result.Skipped++
				continue
			}
			if _, err := skills.Create(ctx, SkillInput{
				ID:       sk.ID,
				Name:     &sk.Name,
				Category: &sk.Category,
				IconURL:  &sk.IconURL,
				Level:    &sk.Level,
			}); err != nil {
				return fmt.Errorf("seed skill %q: %w", sk.Name, err)
			}
			result.Inserted++
		}

		for _, b := range doc.Blogs {
			if exists, err := idExists(ctx, store.Blogs, b.ID); err != nil {
				return err
			} else if exists {
				result.Skipped++
				continue
			}
			if _, err := blogs.Create(ctx, BlogInput{
				ID:          b.ID,
				Title:       &b.Title,
				Excerpt:     &b.Excerpt,
				Content:     &b.Content,
				ImageURL:    &b.ImageURL,
				IsPublished: &b.IsPublished,
			}); err != nil {
				return fmt.Errorf("seed blog %q: %w", b.Title, err)
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	s.logger.Info("seeded content", zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
	return result, nil
}
