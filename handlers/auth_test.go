package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/askloop/askloop-backend/internal/config"
	"github.com/askloop/askloop-backend/internal/sessions"
	"github.com/askloop/askloop-backend/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessions is an in-memory sessions.Repository.
type memSessions struct {
	mu    sync.Mutex
	store map[string]*sessions.Session
}

func newMemSessions() *memSessions {
	return &memSessions{store: map[string]*sessions.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *sessions.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.RefreshToken] = &cp
	return nil
}

func (m *memSessions) GetByRefresh(_ context.Context, refresh string) (*sessions.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.store[refresh]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memSessions) DeleteByRefresh(_ context.Context, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, refresh)
	return nil
}

func newAuthEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenTTL = time.Minute

	usersSvc := users.NewService(users.NewMemoryRepository())
	sessionsSvc := sessions.NewService(newMemSessions())

	r := gin.New()
	NewAuthHandler(cfg, usersSvc, sessionsSvc).Register(r.Group(""))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterUser(t *testing.T) {
	r := newAuthEnv(t)

	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "Alice@Example.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User registered successfully", body["message"])
	u := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", u["email"])
	assert.Equal(t, float64(0), u["role"])
	assert.NotContains(t, w.Body.String(), "hunter22")
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "", "email": "a@b.c", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "a@b.c", "password": "x"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/auth/register", gin.H{"name": "Alice2", "email": "a@b.c", "password": "y"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestLogin(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "a@b.c", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "a@b.c", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, float64(60), body["expiresIn"])
	assert.Equal(t, "Alice", body["user"].(map[string]interface{})["name"])
}

func TestLoginBadCredentials(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "a@b.c", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "a@b.c", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/auth/login", gin.H{"email": "nobody@b.c", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "a@b.c", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(t, r, "/auth/login", gin.H{"email": "a@b.c", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode(t, w)["refreshToken"].(string)

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["accessToken"])

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	r := newAuthEnv(t)
	w := postJSON(t, r, "/auth/register", gin.H{"name": "Alice", "email": "a@b.c", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(t, r, "/auth/login", gin.H{"email": "a@b.c", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode(t, w)["refreshToken"].(string)

	w = postJSON(t, r, "/auth/logout", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseExpFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	payload, err := json.Marshal(gin.H{"exp": exp})
	require.NoError(t, err)
	tok := "x." + base64.RawURLEncoding.EncodeToString(payload) + ".y"

	got, err := parseExpFromJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, exp, got.Unix())

	_, err = parseExpFromJWT("nodots")
	assert.Error(t, err)
}
