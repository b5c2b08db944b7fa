package server

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const notFoundPage = "404.html"

// staticHandler serves dir. Extension-less paths fall back to "<path>.html" and
// unknown paths get the site's 404.html when it exists.
func staticHandler(dir string) http.Handler {
	fsys := os.DirFS(dir)
	files := http.FileServerFS(fsys)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(fsys, name); err == nil {
			files.ServeHTTP(w, r)
			return
		}
		if path.Ext(name) == "" {
			if _, err := fs.Stat(fsys, name+".html"); err == nil {
				r2 := r.Clone(r.Context())
				r2.URL.Path = "/" + name + ".html"
				files.ServeHTTP(w, r2)
				return
			}
		}
		serveNotFound(w, r, fsys)
	})
}

func serveNotFound(w http.ResponseWriter, r *http.Request, fsys fs.FS) {
	page, err := fs.ReadFile(fsys, notFoundPage)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}
