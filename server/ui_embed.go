package server

import (
	"embed"
	"net/http"
)

//go:embed ui/templates
var uiFS embed.FS

func readUITemplate(path string) ([]byte, error) {
	return uiFS.ReadFile(path)
}

func uiVirtualFS() http.FileSystem {
	return http.FS(uiFS)
}
