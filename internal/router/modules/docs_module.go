package modules

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// DocsModule serves the OpenAPI description of the member API at
// GET /api/docs/openapi.yaml and GET /api/docs/openapi.json
type DocsModule struct {
	doc map[string]any
}

// NewDocsModule parses the embedded document once so a broken file fails startup.
func NewDocsModule() (*DocsModule, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	return &DocsModule{doc: doc}, nil
}

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	docs := rg.Group("/docs")
	docs.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", openAPISpec)
	})
	docs.GET("/openapi.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.doc)
	})
}
