package handlers

import (
	"context"
	"net/http"

	"github.com/askloop/askloop-backend/internal/insights"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/questions"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/askloop/askloop-backend/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// InsightHandler serves the manager-only insight resource. Role enforcement
// lives in the service; the handler only shapes requests and responses.
type InsightHandler struct {
	svc          *insights.Service
	questionsSvc *questions.Service
	usersSvc     *users.Service
}

func NewInsightHandler(svc *insights.Service, q *questions.Service, u *users.Service) *InsightHandler {
	return &InsightHandler{svc: svc, questionsSvc: q, usersSvc: u}
}

// Register routes under /insights
func (h *InsightHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/insights", auth)
	g.POST("/:questionId", h.Create)
	g.GET("", h.ListAll)
	g.GET("/:questionId", h.ListByQuestion)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// questionSummary is the slice of the parent question embedded in insight
// responses.
type questionSummary struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// insightView is an insight enriched with its author and, where requested,
// its parent question.
type insightView struct {
	insights.Insight
	Author   *models.PublicProfile `json:"author,omitempty"`
	Question *questionSummary      `json:"question,omitempty"`
}

// insightViews enriches the insights with author profiles and, when
// withQuestions is set, with parent-question summaries. A deleted author or
// question simply leaves the field absent.
func (h *InsightHandler) insightViews(ctx context.Context, list []*insights.Insight, withQuestions bool) ([]insightView, error) {
	userIDs := make([]string, 0, len(list))
	questionIDs := make([]string, 0, len(list))
	for _, i := range list {
		userIDs = append(userIDs, i.CreatedBy)
		questionIDs = append(questionIDs, i.QuestionID)
	}
	profiles, err := h.usersSvc.PublicProfiles(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	var qs map[string]*questions.Question
	if withQuestions {
		if qs, err = h.questionsSvc.GetManyByID(ctx, questionIDs); err != nil {
			return nil, err
		}
	}
	out := make([]insightView, 0, len(list))
	for _, i := range list {
		v := insightView{Insight: *i}
		if p, ok := profiles[i.CreatedBy]; ok {
			v.Author = &p
		}
		if q, ok := qs[i.QuestionID]; ok {
			v.Question = &questionSummary{Title: q.Title, Description: q.Description, Tags: q.Tags}
		}
		out = append(out, v)
	}
	return out, nil
}

// Create handles POST /insights/:questionId
func (h *InsightHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	i, err := h.svc.Create(c.Request.Context(), c.Param("questionId"), req.Summary, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.insightViews(c.Request.Context(), []*insights.Insight{i}, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Insight created successfully", "insight": out[0]})
}

// ListAll handles GET /insights, newest-first across all questions.
func (h *InsightHandler) ListAll(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	list, err := h.svc.ListAll(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.insightViews(c.Request.Context(), list, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListByQuestion handles GET /insights/:questionId
func (h *InsightHandler) ListByQuestion(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	list, err := h.svc.ListByQuestion(c.Request.Context(), c.Param("questionId"), ident)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.insightViews(c.Request.Context(), list, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /insights/:id. An empty summary keeps the stored
// value.
func (h *InsightHandler) Update(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Summary *string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	i, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Summary, ident)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.insightViews(c.Request.Context(), []*insights.Insight{i}, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Insight updated successfully", "insight": out[0]})
}

// Delete handles DELETE /insights/:id
func (h *InsightHandler) Delete(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), ident); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Insight deleted successfully"})
}
