package router

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/gate"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/logging"
	"github.com/portfolio/internal/repository"
	"go.uber.org/zap"
)

// Options 描述构建路由所需的依赖与配置。
type Options struct {
	Store         *repository.Store
	Gate          *gate.Gate
	Logger        *zap.Logger
	SessionSecret string
	UploadDir     string
	UploadURL     string
	DeviceMaxAge  time.Duration
	SecureCookies bool
	// SiteIndex is an optional built front-end entry served for unknown GET paths.
	SiteIndex string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.Recovery(logger), logging.Middleware(logger))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	// Cookie signatures are checked against this age too, so it must cover the device cookie.
	if aged, ok := store.(interface{ MaxAge(int) }); ok && opts.DeviceMaxAge > 0 {
		aged.MaxAge(int(opts.DeviceMaxAge.Seconds()))
	}
	r.Use(sessions.SessionsMany(handler.SessionNames, store))

	api := handler.NewAPI(handler.Options{
		Store:         opts.Store,
		Gate:          opts.Gate,
		Logger:        logger,
		UploadDir:     opts.UploadDir,
		UploadURL:     opts.UploadURL,
		DeviceMaxAge:  opts.DeviceMaxAge,
		SecureCookies: opts.SecureCookies,
	})
	r.Use(api.LocaleMiddleware())

	uploadURL := "/" + strings.Trim(opts.UploadURL, "/")
	if opts.UploadDir != "" && uploadURL != "/" {
		r.Static(uploadURL, opts.UploadDir)
	}

	r.GET("/healthz", api.HealthCheck)

	public := r.Group("/api")
	{
		public.GET("/home", api.ShowHome)
		public.GET("/projects", api.ListProjects)
		public.GET("/skills", api.ListSkills)
		public.GET("/blogs", api.ListBlogs)
		public.GET("/blogs/:id", api.ShowBlog)
		public.GET("/comments", api.ListComments)
		public.POST("/comments", api.SubmitComment)
		public.POST("/messages", api.SubmitMessage)
		public.POST("/visits", api.RecordVisit)
		public.GET("/language", api.ShowLanguage)
		public.POST("/language/toggle", api.ToggleLanguage)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/gate", api.ShowGate)
		admin.GET("/setup", api.TrustDevice)
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)
		admin.POST("/forget-device", api.ForgetDevice)

		// 需要解锁的后台路由
		auth := admin.Group("/api")
		auth.Use(api.GateRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)

			auth.POST("/projects", api.CreateProject)
			auth.PUT("/projects/:id", api.UpdateProject)
			auth.DELETE("/projects/:id", api.DeleteProject)

			auth.POST("/skills", api.CreateSkill)
			auth.PUT("/skills/:id", api.UpdateSkill)
			auth.DELETE("/skills/:id", api.DeleteSkill)

			auth.POST("/blogs", api.CreateBlog)
			auth.PUT("/blogs/:id", api.UpdateBlog)
			auth.DELETE("/blogs/:id", api.DeleteBlog)

			auth.POST("/comments/:id/pin", api.TogglePinComment)
			auth.POST("/comments/:id/like", api.ToggleLikeComment)
			auth.PUT("/comments/:id/reply", api.ReplyComment)
			auth.DELETE("/comments/:id", api.DeleteComment)

			auth.DELETE("/messages/:id", api.DeleteMessage)
			auth.DELETE("/visitors/:id", api.DeleteVisitor)

			auth.POST("/uploads", api.UploadImage)
		}
	}

	if opts.SiteIndex != "" {
		reserved := []string{"/api/", "/admin/", uploadURL + "/", "/healthz"}
		r.NoRoute(api.TrackPageViews(reserved...), func(c *gin.Context) {
			p := c.Request.URL.Path
			if c.Request.Method != http.MethodGet || path.Ext(p) != "" || hasAnyPrefix(p, reserved) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(opts.SiteIndex)
		})
	}

	return r
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
