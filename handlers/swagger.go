package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>askloop — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the public surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "askloop-backend", "version": "v0.1.0" },
  "paths": {
    "/auth/register": {
      "post": { "summary": "Register a member account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "201": { "description": "user created" }, "409": { "description": "email already registered" } } }
    },
    "/auth/login": {
      "post": { "summary": "Login with email and password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/questions": {
      "post": { "summary": "Create a question", "responses": { "201": { "description": "question created" }, "400": { "description": "missing title or description" } } }
    },
    "/questions/all": {
      "post": { "summary": "Search questions by title substring and tags", "responses": { "200": { "description": "matching questions, newest-first" } } }
    },
    "/questions/byuser": {
      "get": { "summary": "List the caller's questions", "responses": { "200": { "description": "questions" }, "404": { "description": "none found" } } }
    },
    "/questions/{id}": {
      "get": { "summary": "Get a question with its answers", "responses": { "200": { "description": "question and answers" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Update own question", "responses": { "200": { "description": "updated" }, "403": { "description": "not owner" } } },
      "delete": { "summary": "Delete own question and its answers", "responses": { "200": { "description": "deleted" }, "403": { "description": "not owner" } } }
    },
    "/answers/{questionId}": {
      "post": { "summary": "Answer a question", "responses": { "201": { "description": "answer created" }, "404": { "description": "question not found" } } },
      "get": { "summary": "List a question's answers", "responses": { "200": { "description": "answers, newest-first" } } }
    },
    "/insights/{questionId}": {
      "post": { "summary": "Attach a manager insight to a question", "responses": { "201": { "description": "insight created" }, "403": { "description": "managers only" } } },
      "get": { "summary": "List a question's insights (managers only)", "responses": { "200": { "description": "insights" } } }
    },
    "/insights": {
      "get": { "summary": "List all insights (managers only)", "responses": { "200": { "description": "insights" }, "403": { "description": "managers only" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics exposition" } } } }
  }
}`
