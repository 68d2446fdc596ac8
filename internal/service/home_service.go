package service

import (
	"context"

	"github.com/portfolio/internal/content"
	"github.com/portfolio/internal/db"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Home is everything the landing page renders in one payload.
type Home struct {
	Projects []db.Project         `json:"projects"`
	Skills   content.SkillCatalog `json:"skills"`
	Blogs    []db.BlogPost        `json:"blogs"`
	Comments []db.Comment         `json:"comments"`
}

// HomeService fans the landing page reads out concurrently.
type HomeService struct {
	projects *ProjectService
	skills   *SkillService
	blogs    *BlogService
	comments *CommentService
	logger   *zap.Logger
}

// NewHomeService creates a HomeService instance.
func NewHomeService(projects *ProjectService, skills *SkillService, blogs *BlogService, comments *CommentService, logger *zap.Logger) *HomeService {
	return &HomeService{projects: projects, skills: skills, blogs: blogs, comments: comments, logger: orNop(logger)}
}

// Load 并发读取四个集合；任何一个失败都只会让对应区块为空，不影响其他区块。
func (s *HomeService) Load(ctx context.Context) Home {
	var home Home
	var g errgroup.Group

	g.Go(func() error {
		home.Projects = s.projects.Display(ctx)
		return nil
	})
	g.Go(func() error {
		home.Skills = s.skills.Display(ctx)
		return nil
	})
	g.Go(func() error {
		blogs, err := s.blogs.ListPublished(ctx)
		if err != nil {
			s.logger.Warn("list blogs failed", zap.Error(err))
		}
		home.Blogs = blogs
		return nil
	})
	g.Go(func() error {
		comments, err := s.comments.List(ctx)
		if err != nil {
			s.logger.Warn("list comments failed", zap.Error(err))
		}
		home.Comments = comments
		return nil
	})

	_ = g.Wait()
	return home
}
