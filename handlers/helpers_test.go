package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askloop/askloop-backend/internal/answers"
	"github.com/askloop/askloop-backend/internal/insights"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/questions"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/askloop/askloop-backend/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testAuth resolves the identity from test headers instead of a bearer
// token: X-User carries the user id, X-Role=manager elevates the role.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.GetHeader("X-User")
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		role := models.RoleMember
		if c.GetHeader("X-Role") == "manager" {
			role = models.RoleManager
		}
		c.Set(middleware.IdentityKey, models.Identity{UserID: sub, Role: role})
		c.Next()
	}
}

type env struct {
	r         *gin.Engine
	usersRepo *users.MemoryRepository
	usersSvc  *users.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	usersRepo := users.NewMemoryRepository()
	questionsRepo := questions.NewMemoryRepository()
	answersRepo := answers.NewMemoryRepository()
	insightsRepo := insights.NewMemoryRepository()

	usersSvc := users.NewService(usersRepo)
	questionsSvc := questions.NewService(questionsRepo, answersRepo)
	answersSvc := answers.NewService(answersRepo, questionsRepo)
	insightsSvc := insights.NewService(insightsRepo, questionsRepo)

	r := gin.New()
	rg := r.Group("")
	NewQuestionHandler(questionsSvc, answersSvc, usersSvc).Register(rg, testAuth())
	NewAnswerHandler(answersSvc, usersSvc).Register(rg, testAuth())
	NewInsightHandler(insightsSvc, questionsSvc, usersSvc).Register(rg, testAuth())

	return &env{r: r, usersRepo: usersRepo, usersSvc: usersSvc}
}

// addUser seeds a user directly and returns its hex id.
func (e *env) addUser(t *testing.T, name string, role models.Role) string {
	t.Helper()
	u, err := e.usersRepo.Create(context.Background(), &models.User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return u.ID.Hex()
}

// do performs a request as the given user. role is "" or "manager".
func (e *env) do(t *testing.T, method, path string, body interface{}, user, role string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createQuestion posts a question and returns its id.
func (e *env) createQuestion(t *testing.T, user, title, description string, tags []string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/questions", gin.H{"title": title, "description": description, "tags": tags}, user, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	q := body["question"].(map[string]interface{})
	return q["id"].(string)
}
