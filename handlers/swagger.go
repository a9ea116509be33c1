package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the registros API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>registros API</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "registros", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "apiKey": { "type": "apiKey", "in": "header", "name": "X-API-Key" } },
    "schemas": {
      "Registro": { "type": "object", "properties": { "id": {"type":"integer"}, "fecha": {"type":"string"}, "data": {"type":"object"}, "createdAt": {"type":"string","format":"date-time"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "security": [ { "apiKey": [] } ],
  "paths": {
    "/registros": {
      "post": { "summary": "Store a bakery record (whole body kept as data)", "requestBody": { "content": { "application/json": { "schema": {"type":"object"} } } }, "responses": { "201": { "description": "created registro" }, "400": { "description": "malformed body" } } },
      "get": {
        "summary": "List registros, newest first",
        "parameters": [
          { "name": "take", "in": "query", "schema": {"type":"integer"} },
          { "name": "skip", "in": "query", "schema": {"type":"integer"} },
          { "name": "desde", "in": "query", "schema": {"type":"string","format":"date"} },
          { "name": "hasta", "in": "query", "schema": {"type":"string","format":"date"} }
        ],
        "responses": { "200": { "description": "registros" } }
      },
      "delete": { "summary": "Delete every registro", "responses": { "200": { "description": "{deleted: n}" } } }
    },
    "/registros/count": {
      "get": { "summary": "Count registros", "responses": { "200": { "description": "{count: n}" } } }
    },
    "/registros/{id}": {
      "get": { "summary": "Get one registro", "responses": { "200": { "description": "registro" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete one registro", "responses": { "200": { "description": "{deleted: id}" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } }
    },
    "/registros/{id}/amasadoras/{index}": {
      "delete": {
        "summary": "Remove one amasadora by index; deletes the registro when none remain",
        "responses": {
          "200": { "description": "{updatedId, amasadorasRestantes} or {deletedRegistro, amasadorasRestantes: 0}" },
          "400": { "description": "invalid params" },
          "404": { "description": "registro or amasadora not found" },
          "500": { "description": "store failure" }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
