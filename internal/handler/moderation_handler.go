package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"go.uber.org/zap"
)

type replyRequest struct {
	Reply string `json:"reply"`
}

// ShowDashboard 返回后台面板的一致性快照。读取失败时各列表为空并附带错误信息。
func (a *API) ShowDashboard(c *gin.Context) {
	dash, err := a.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		a.logger.Warn("dashboard snapshot failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"dashboard": dash, "error": "failed to load some data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": dash})
}

func (a *API) TogglePinComment(c *gin.Context) {
	a.moderateComment(c, a.comments.TogglePin)
}

func (a *API) ToggleLikeComment(c *gin.Context) {
	a.moderateComment(c, a.comments.ToggleLike)
}

// ReplyComment sets or clears the admin reply.
func (a *API) ReplyComment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}
	var payload replyRequest
	if !bindJSON(c, &payload, "invalid reply payload") {
		return
	}
	comment, err := a.comments.Reply(c.Request.Context(), id, payload.Reply)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (a *API) DeleteComment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := a.comments.Delete(c.Request.Context(), id); err != nil {
		handleCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (a *API) DeleteMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid message id")
		return
	}
	if err := a.messages.Delete(c.Request.Context(), id); err != nil {
		handleMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (a *API) DeleteVisitor(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid visitor id")
		return
	}
	if err := a.visitors.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrVisitorNotFound) {
			respondError(c, http.StatusNotFound, "visitor event not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "visitor operation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "visitor event deleted"})
}

func (a *API) moderateComment(c *gin.Context, op func(ctx context.Context, id string) (*db.Comment, error)) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}
	comment, err := op(c.Request.Context(), id)
	if err != nil {
		handleCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}
