package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

type projectRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Details     *string `json:"details"`
	LinkURL     *string `json:"link_url"`
	CodeURL     *string `json:"code_url"`
	Variant     *string `json:"variant"`
}

func (r projectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Details:     r.Details,
		LinkURL:     r.LinkURL,
		CodeURL:     r.CodeURL,
		Variant:     r.Variant,
	}
}

type skillRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Category *string `json:"category"`
	IconURL  *string `json:"icon_url"`
	Level    *int    `json:"level"`
}

func (r skillRequest) toInput() service.SkillInput {
	return service.SkillInput{ID: r.ID, Name: r.Name, Category: r.Category, IconURL: r.IconURL, Level: r.Level}
}

type blogRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
	IsPublished *bool   `json:"is_published"`
}

func (r blogRequest) toInput() service.BlogInput {
	return service.BlogInput{
		ID:          r.ID,
		Title:       r.Title,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		IsPublished: r.IsPublished,
	}
}

// CreateProject 新增作品。
func (a *API) CreateProject(c *gin.Context) {
	var payload projectRequest
	if !bindJSON(c, &payload, "invalid project payload") {
		return
	}
	project, err := a.projects.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject 局部更新作品。
func (a *API) UpdateProject(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	var payload projectRequest
	if !bindJSON(c, &payload, "invalid project payload") {
		return
	}
	project, err := a.projects.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject 删除作品。
func (a *API) DeleteProject(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid project id")
		return
	}
	if err := a.projects.Delete(c.Request.Context(), id); err != nil {
		handleProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (a *API) CreateSkill(c *gin.Context) {
	var payload skillRequest
	if !bindJSON(c, &payload, "invalid skill payload") {
		return
	}
	skill, err := a.skills.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		handleSkillError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"skill": skill})
}

func (a *API) UpdateSkill(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid skill id")
		return
	}
	var payload skillRequest
	if !bindJSON(c, &payload, "invalid skill payload") {
		return
	}
	skill, err := a.skills.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		handleSkillError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill": skill})
}

func (a *API) DeleteSkill(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid skill id")
		return
	}
	if err := a.skills.Delete(c.Request.Context(), id); err != nil {
		handleSkillError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill deleted"})
}

// CreateBlog 新增文章，可直接发布。
func (a *API) CreateBlog(c *gin.Context) {
	var payload blogRequest
	if !bindJSON(c, &payload, "invalid blog payload") {
		return
	}
	post, err := a.blogs.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		handleBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blog": post})
}

func (a *API) UpdateBlog(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}
	var payload blogRequest
	if !bindJSON(c, &payload, "invalid blog payload") {
		return
	}
	post, err := a.blogs.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		handleBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": post})
}

func (a *API) DeleteBlog(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blog id")
		return
	}
	if err := a.blogs.Delete(c.Request.Context(), id); err != nil {
		handleBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog post deleted"})
}

func handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrProjectTitleRequired):
		respondError(c, http.StatusBadRequest, "project title is required")
	case errors.Is(err, service.ErrProjectVariantInvalid):
		respondError(c, http.StatusBadRequest, "project variant is invalid")
	case errors.Is(err, service.ErrProjectExists):
		respondError(c, http.StatusConflict, "project id already exists")
	default:
		respondError(c, http.StatusInternalServerError, "project operation failed")
	}
}

func handleSkillError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSkillNotFound):
		respondError(c, http.StatusNotFound, "skill not found")
	case errors.Is(err, service.ErrSkillNameRequired):
		respondError(c, http.StatusBadRequest, "skill name is required")
	case errors.Is(err, service.ErrSkillLevelInvalid):
		respondError(c, http.StatusBadRequest, "skill level must be between 0 and 100")
	case errors.Is(err, service.ErrSkillExists):
		respondError(c, http.StatusConflict, "skill id already exists")
	default:
		respondError(c, http.StatusInternalServerError, "skill operation failed")
	}
}
