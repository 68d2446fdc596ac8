package handler

import (
	"time"

	"github.com/portfolio/internal/gate"
	"github.com/portfolio/internal/repository"
	"github.com/portfolio/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures NewAPI.
type Options struct {
	Store         *repository.Store
	Gate          *gate.Gate
	Logger        *zap.Logger
	UploadDir     string
	UploadURL     string
	DeviceMaxAge  time.Duration
	SecureCookies bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	projects  *service.ProjectService
	skills    *service.SkillService
	blogs     *service.BlogService
	comments  *service.CommentService
	messages  *service.MessageService
	visitors  *service.VisitorService
	dashboard *service.DashboardService
	home      *service.HomeService
	gate      *gate.Gate
	logger    *zap.Logger

	uploadDir     string
	uploadURL     string
	deviceMaxAge  time.Duration
	secureCookies bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	projects := service.NewProjectService(opts.Store, logger)
	skills := service.NewSkillService(opts.Store, logger)
	blogs := service.NewBlogService(opts.Store, logger)
	comments := service.NewCommentService(opts.Store)

	return &API{
		db:            opts.Store.DB(),
		projects:      projects,
		skills:        skills,
		blogs:         blogs,
		comments:      comments,
		messages:      service.NewMessageService(opts.Store),
		visitors:      service.NewVisitorService(opts.Store, logger),
		dashboard:     service.NewDashboardService(opts.Store),
		home:          service.NewHomeService(projects, skills, blogs, comments, logger),
		gate:          opts.Gate,
		logger:        logger,
		uploadDir:     opts.UploadDir,
		uploadURL:     opts.UploadURL,
		deviceMaxAge:  opts.DeviceMaxAge,
		secureCookies: opts.SecureCookies,
	}
}

// Visitors exposes the visitor service.
func (a *API) Visitors() *service.VisitorService {
	return a.visitors
}
