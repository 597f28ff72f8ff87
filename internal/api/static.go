package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Serves the built client bundle. Unknown paths fall back to index.html so
// client-side routes survive a hard reload.
type spaHandler struct {
	dir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqPath := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))

	// Keep requests inside the static dir
	if !strings.HasPrefix(reqPath, filepath.Clean(h.dir)) {
		http.NotFound(w, r)
		return
	}

	if info, err := os.Stat(reqPath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, reqPath)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}
