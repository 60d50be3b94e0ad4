package httpapi

import (
	"embed"
	"net/http"
)

//go:embed assets
var assets embed.FS

// staticFiles are served before any id lookup.
var staticFiles = map[string]string{
	"favicon.ico": "image/x-icon",
	"github.png":  "image/png",
}

func (s *Server) serveStatic(w http.ResponseWriter, name string) bool {
	ct, ok := staticFiles[name]
	if !ok {
		return false
	}

	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		return false
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return true
}
