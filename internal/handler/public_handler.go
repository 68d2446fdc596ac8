package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
	"go.uber.org/zap"
)

type commentRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type visitRequest struct {
	Page     string `json:"page_visited"`
	Referrer string `json:"referrer"`
}

// ListProjects returns the reconciled project list.
func (a *API) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": a.projects.Display(c.Request.Context())})
}

// ListSkills returns skills grouped by category.
func (a *API) ListSkills(c *gin.Context) {
	c.JSON(http.StatusOK, a.skills.Display(c.Request.Context()))
}

// ListBlogs 返回已发布文章；读取失败时返回空列表。
func (a *API) ListBlogs(c *gin.Context) {
	posts, err := a.blogs.ListPublished(c.Request.Context())
	if err != nil {
		a.logger.Warn("list blogs failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"blogs": posts})
}

// ShowBlog returns one published post with rendered HTML.
func (a *API) ShowBlog(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}

	view, err := a.blogs.View(c.Request.Context(), id)
	if err != nil {
		handleBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": view})
}

// ListComments returns the comment wall.
func (a *API) ListComments(c *gin.Context) {
	comments, err := a.comments.List(c.Request.Context())
	if err != nil {
		a.logger.Warn("list comments failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// SubmitComment 访客留言，is_author 始终为 false。
func (a *API) SubmitComment(c *gin.Context) {
	var payload commentRequest
	if !bindJSON(c, &payload, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Submit(c.Request.Context(), payload.Name, payload.Message)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// SubmitMessage stores a contact form submission.
func (a *API) SubmitMessage(c *gin.Context) {
	var payload messageRequest
	if !bindJSON(c, &payload, "invalid message payload") {
		return
	}

	message, err := a.messages.Submit(c.Request.Context(), service.MessageInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Message: payload.Message,
	})
	if err != nil {
		handleMessageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": message.ID})
}

// RecordVisit 记录前端路由切换产生的访问；失败只记日志，始终返回 204。
func (a *API) RecordVisit(c *gin.Context) {
	var payload visitRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		a.logger.Warn("malformed visit payload", zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	referrer := payload.Referrer
	if referrer == "" {
		referrer = c.Request.Referer()
	}
	a.recordVisit(c.Request.Context(), service.VisitInput{
		Page:      payload.Page,
		UserAgent: c.Request.UserAgent(),
		Referrer:  referrer,
	})
	c.Status(http.StatusNoContent)
}

// ShowHome returns every landing page section in one payload.
func (a *API) ShowHome(c *gin.Context) {
	c.JSON(http.StatusOK, a.home.Load(c.Request.Context()))
}

// TrackPageViews records server-rendered page loads. API, admin and static
// paths are skipped; only successful GETs count.
func (a *API) TrackPageViews(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}
		a.recordVisit(context.WithoutCancel(c.Request.Context()), service.VisitInput{
			Page:      path,
			UserAgent: c.Request.UserAgent(),
			Referrer:  c.Request.Referer(),
		})
	}
}

func (a *API) recordVisit(ctx context.Context, input service.VisitInput) {
	if err := a.visitors.Record(ctx, input); err != nil {
		a.logger.Warn("record visit failed", zap.String("page", input.Page), zap.Error(err))
	}
}

func handleBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "blog post not found")
	case errors.Is(err, service.ErrBlogTitleRequired):
		respondError(c, http.StatusBadRequest, "blog title is required")
	case errors.Is(err, service.ErrBlogExists):
		respondError(c, http.StatusConflict, "blog post id already exists")
	default:
		respondError(c, http.StatusInternalServerError, "blog operation failed")
	}
}

func handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "comment not found")
	case errors.Is(err, service.ErrCommentInvalidInput):
		respondError(c, http.StatusBadRequest, "name and message are required")
	case errors.Is(err, service.ErrCommentTooLong):
		respondError(c, http.StatusBadRequest, "comment is too long")
	default:
		respondError(c, http.StatusInternalServerError, "comment operation failed")
	}
}

func handleMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "message not found")
	case errors.Is(err, service.ErrMessageInvalidInput):
		respondError(c, http.StatusBadRequest, "name, email and message are required")
	case errors.Is(err, service.ErrMessageInvalidEmail):
		respondError(c, http.StatusBadRequest, "email address is invalid")
	default:
		respondError(c, http.StatusInternalServerError, "message operation failed")
	}
}
