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
    <title>summaryhub — Swagger</title>
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

// Minimal OpenAPI document describing the public API surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "summaryhub", "version": "v0.1.0" },
  "paths": {
    "/users/register": {
      "post": { "summary": "Register the bearer token's subject", "responses": { "201": { "description": "user created" }, "409": { "description": "already registered" } } }
    },
    "/users/me": {
      "get": { "summary": "Profile of the current user", "responses": { "200": { "description": "user" }, "403": { "description": "not registered" } } }
    },
    "/users": {
      "get": { "summary": "List users (admin)", "responses": { "200": { "description": "users" }, "403": { "description": "access denied" } } }
    },
    "/users/{id}": {
      "put": { "summary": "Change a user's role (admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"role":{"type":"string","enum":["admin","writer","reader"]}}}}}}, "responses": { "200": { "description": "updated user" }, "404": { "description": "not found" } } }
    },
    "/summaries": {
      "get": { "summary": "List summaries visible to the caller", "responses": { "200": { "description": "summaries" } } },
      "post": { "summary": "Create a summary (writer or admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"url":{"type":"string"},"summary":{"type":"string"}}}}}}, "responses": { "201": { "description": "created" } } }
    },
    "/summaries/{id}": {
      "get": { "summary": "Get a summary", "responses": { "200": { "description": "summary" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a summary", "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner" } } },
      "delete": { "summary": "Delete a summary", "responses": { "200": { "description": "deleted summary" } } }
    },
    "/auth/validate-token": {
      "post": { "summary": "Inspect a bearer token (non-production)", "responses": { "200": { "description": "validation result" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
