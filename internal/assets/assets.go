// Package assets serves the bundled frontend: any request path that
// doesn't match a real file falls back to index.html so a client-side
// router can own the route. No third-party static-file library appears
// anywhere in the retrieved pack, so this is built directly on embed.FS
// and http.FileServer (see DESIGN.md).
package assets

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed static
var embedded embed.FS

// Handler serves the bundled UI from the embedded filesystem, or from
// disk at dir when dir is non-empty (local frontend development). Any
// path that doesn't match a real file falls back to index.html so a
// client-side router can own the route.
func Handler(dir string) http.Handler {
	if dir != "" {
		return fallbackFileServer(os.DirFS(dir))
	}
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic("assets: static bundle missing: " + err.Error())
	}
	return fallbackFileServer(sub)
}

func fallbackFileServer(fsys fs.FS) http.Handler {
	server := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Clean("/" + r.URL.Path)[1:]
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(fsys, name); err != nil {
			r = cloneWithPath(r, "/index.html")
		}
		server.ServeHTTP(w, r)
	})
}

func cloneWithPath(r *http.Request, path string) *http.Request {
	clone := r.Clone(r.Context())
	clone.URL.Path = path
	return clone
}
