package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/eknkc/amber"
	"github.com/gin-gonic/gin"

	"catalogsync/catalog"
)

type uiTemplates struct {
	compiled map[string]*template.Template
}

func loadUITemplates() (*uiTemplates, error) {
	templatePaths := map[string]string{
		"pages/models": "ui/templates/pages/models.amber",
	}

	opts := amber.Options{
		PrettyPrint:       true,
		LineNumbers:       false,
		VirtualFilesystem: uiVirtualFS(),
	}

	compiled := make(map[string]*template.Template, len(templatePaths))
	for name, path := range templatePaths {
		data, err := readUITemplate(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		tmpl, err := amber.CompileData(data, path, opts)
		if err != nil {
			return nil, fmt.Errorf("compile template %s: %w", path, err)
		}
		compiled[name] = tmpl
	}

	return &uiTemplates{compiled: compiled}, nil
}

func (t *uiTemplates) Template(name string) *template.Template {
	if t == nil {
		return nil
	}
	return t.compiled[name]
}

type uiPageData struct {
	Providers   []catalog.Provider
	ModelCount  int
	VersionInfo VersionInfo
}

func (s *Server) uiModelsPageHandler(c *gin.Context) {
	providers := s.catalog.Providers()
	count := 0
	for _, provider := range providers {
		count += len(provider.Models)
	}
	s.renderUITemplate(c, "pages/models", uiPageData{
		Providers:   providers,
		ModelCount:  count,
		VersionInfo: s.version,
	})
}

func (s *Server) renderUITemplate(c *gin.Context, name string, data uiPageData) {
	tmpl := s.uiTemplates.Template(name)
	if tmpl == nil {
		c.String(http.StatusInternalServerError, "UI template not found")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(c.Writer, data); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
