// Package server exposes the loaded catalog over HTTP: JSON listings for
// tooling, an OpenAI-style /v1/models endpoint, and a small HTML view.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"

	"catalogsync/catalog"
)

type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

type Server struct {
	catalog     *catalog.Catalog
	ginEngine   *gin.Engine
	uiTemplates *uiTemplates
	version     VersionInfo
}

func New(cat *catalog.Catalog, version VersionInfo) (*Server, error) {
	templates, err := loadUITemplates()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		catalog:     cat,
		ginEngine:   gin.Default(),
		uiTemplates: templates,
		version:     version,
	}
	srv.addHandlers()
	return srv, nil
}

func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) addHandlers() {
	apiGroup := s.ginEngine.Group("/api")
	{
		apiGroup.GET("/providers", s.apiGetProviders)
		apiGroup.GET("/models", s.apiGetModels)
		apiGroup.GET("/providers/:provider/merged", s.apiGetMerged)
		apiGroup.GET("/version", s.apiGetVersion)
	}
	s.ginEngine.GET("/v1/models", s.apiGetV1Models)
	s.ginEngine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	s.ginEngine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/ui/models")
	})
	s.ginEngine.GET("/ui/models", s.uiModelsPageHandler)
}

func (s *Server) apiGetProviders(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Providers())
}

func (s *Server) apiGetModels(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Models())
}

func (s *Server) apiGetMerged(c *gin.Context) {
	merged, err := s.catalog.Merged(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.Data(http.StatusOK, "application/json", merged)
}

type v1Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

func (s *Server) apiGetV1Models(c *gin.Context) {
	models := s.catalog.Models()
	data := make([]v1Model, 0, len(models))
	for _, model := range models {
		data = append(data, v1Model{
			ID:      model.ID,
			Object:  "model",
			OwnedBy: model.Provider,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}

func (s *Server) apiGetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, s.version)
}

// WatchAndReload reloads the catalog whenever a JSON file under its watch
// paths changes. Blocks until the context is cancelled.
func (s *Server) WatchAndReload(ctx context.Context, onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range s.catalog.WatchPaths() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := s.catalog.Load(); err != nil && onError != nil {
				onError(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}
