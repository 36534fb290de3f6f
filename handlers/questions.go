package handlers

import (
	"context"
	"net/http"

	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/questions"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/askloop/askloop-backend/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// QuestionHandler serves the question resource
type QuestionHandler struct {
	svc        *questions.Service
	answersSvc *answers.Service
	usersSvc   *users.Service
}

func NewQuestionHandler(svc *questions.Service, a *answers.Service, u *users.Service) *QuestionHandler {
	return &QuestionHandler{svc: svc, answersSvc: a, usersSvc: u}
}

// Register routes under /questions; every route requires an authenticated
// identity.
func (h *QuestionHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/questions", auth)
	g.POST("", h.Create)
	g.GET("/byuser", h.ListByUser)
	g.GET("/:id", h.GetByID)
	g.POST("/all", h.ListAll)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// questionView is a question enriched with its author's public profile.
// Author is omitted when the account no longer exists.
type questionView struct {
	questions.Question
	Author *models.PublicProfile `json:"author,omitempty"`
}

func (h *QuestionHandler) questionViews(ctx context.Context, list []*questions.Question) ([]questionView, error) {
	ids := make([]string, 0, len(list))
	for _, q := range list {
		ids = append(ids, q.CreatedBy)
	}
	profiles, err := h.usersSvc.PublicProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]questionView, 0, len(list))
	for _, q := range list {
		v := questionView{Question: *q}
		if p, ok := profiles[q.CreatedBy]; ok {
			v.Author = &p
		}
		out = append(out, v)
	}
	return out, nil
}

// Create handles POST /questions
func (h *QuestionHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.svc.Create(c.Request.Context(), questions.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Question created successfully", "question": q})
}

// GetByID handles GET /questions/:id and returns the question together with
// its answers, both enriched with author profiles, answers newest-first.
func (h *QuestionHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	q, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.answersSvc.ListByQuestion(ctx, q.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	qv, err := h.questionViews(ctx, []*questions.Question{q})
	if err != nil {
		respondError(c, err)
		return
	}
	av, err := answerViews(ctx, h.usersSvc, list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": qv[0], "answers": av})
}

// ListAll handles POST /questions/all, the search endpoint. Both filters are
// optional and compose with AND.
func (h *QuestionHandler) ListAll(c *gin.Context) {
	var req struct {
		Search string   `json:"search"`
		Tags   []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.ListAll(c.Request.Context(), req.Search, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.questionViews(c.Request.Context(), list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListByUser handles GET /questions/byuser. An empty result set is a 404,
// not an empty array; the frontend depends on it.
func (h *QuestionHandler) ListByUser(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	list, err := h.svc.ListByUser(c.Request.Context(), ident)
	if err != nil {
		if err == questions.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No questions found for this user"})
			return
		}
		respondError(c, err)
		return
	}
	out, err := h.questionViews(c.Request.Context(), list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /questions/:id. Absent fields keep their stored
// values; an empty string is treated as absent, so only tags can be cleared
// explicitly.
func (h *QuestionHandler) Update(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Tags        *[]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := questions.Patch{Title: req.Title, Description: req.Description, Tags: req.Tags}
	if p.Title != nil && *p.Title == "" {
		p.Title = nil
	}
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}
	q, err := h.svc.Update(c.Request.Context(), c.Param("id"), p, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully", "question": q})
}

// Delete handles DELETE /questions/:id; the question's answers go with it.
func (h *QuestionHandler) Delete(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), ident); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question and its answers deleted successfully"})
}
