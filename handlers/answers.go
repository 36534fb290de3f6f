package handlers

import (
	"context"
	"net/http"

	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/askloop/askloop-backend/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// AnswerHandler serves the answer resource
type AnswerHandler struct {
	svc      *answers.Service
	usersSvc *users.Service
}

func NewAnswerHandler(svc *answers.Service, u *users.Service) *AnswerHandler {
	return &AnswerHandler{svc: svc, usersSvc: u}
}

// Register routes under /answers. Create and list are keyed by the parent
// question id, mutations by the answer id.
func (h *AnswerHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/answers", auth)
	g.POST("/:questionId", h.Create)
	g.GET("/:questionId", h.ListByQuestion)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// answerView is an answer enriched with its author's public profile.
type answerView struct {
	answers.Answer
	Author *models.PublicProfile `json:"author,omitempty"`
}

func answerViews(ctx context.Context, usersSvc *users.Service, list []*answers.Answer) ([]answerView, error) {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.CreatedBy)
	}
	profiles, err := usersSvc.PublicProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]answerView, 0, len(list))
	for _, a := range list {
		v := answerView{Answer: *a}
		if p, ok := profiles[a.CreatedBy]; ok {
			v.Author = &p
		}
		out = append(out, v)
	}
	return out, nil
}

// Create handles POST /answers/:questionId
func (h *AnswerHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.svc.Create(c.Request.Context(), c.Param("questionId"), req.Content, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := answerViews(c.Request.Context(), h.usersSvc, []*answers.Answer{a})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out[0])
}

// ListByQuestion handles GET /answers/:questionId, newest-first.
func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	list, err := h.svc.ListByQuestion(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := answerViews(c.Request.Context(), h.usersSvc, list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /answers/:id. An empty body keeps the stored value.
func (h *AnswerHandler) Update(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Answer *string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Answer, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer updated successfully", "answer": a})
}

// Delete handles DELETE /answers/:id; no cascade.
func (h *AnswerHandler) Delete(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), ident); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}
