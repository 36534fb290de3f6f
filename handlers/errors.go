package handlers

import (
	"errors"
	"net/http"

	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/insights"
	"github.com/askloop/askloop-backend/internal/policy"
	"github.com/askloop/askloop-backend/internal/questions"
	"github.com/askloop/askloop-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps classified service errors to their HTTP responses.
// Anything unclassified is logged and reported generically.
func respondError(c *gin.Context, err error) {
	var denied *policy.DeniedError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Reason})
	case errors.Is(err, questions.ErrValidation),
		errors.Is(err, answers.ErrValidation),
		errors.Is(err, insights.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, questions.ErrNotFound),
		errors.Is(err, answers.ErrNotFound),
		errors.Is(err, insights.ErrNotFound),
		errors.Is(err, answers.ErrQuestionNotFound),
		errors.Is(err, insights.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
