package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
}

const defaultMimeType = "text/plain"

// StaticHandler serves files below Root. Requests are never allowed to leave
// Root, neither through ".." segments nor through symlinks.
type StaticHandler struct {
	Root  string
	Index string
}

func NewStaticHandler(root, index string) (*StaticHandler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &StaticHandler{Root: abs, Index: index}, nil
}

func (me *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, ErrMethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}
	name, err := me.Resolve(r.URL.Path)
	if err != nil {
		log.Debugf("static %s: %s", r.URL.Path, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	buf, err := os.ReadFile(name)
	if err != nil {
		log.Warnf("static %s: %s", name, err)
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", ContentType(me.requested(r.URL.Path)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write(buf)
	}
}

func (me *StaticHandler) requested(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return "/" + me.Index
	}
	return urlPath
}

// Resolve maps a URL path to a regular file inside Root.
func (me *StaticHandler) Resolve(urlPath string) (string, error) {
	name := filepath.Join(me.Root, filepath.FromSlash(me.requested(urlPath)))
	if !within(me.Root, name) {
		return "", ErrForbiddenPath
	}
	// Join drops a trailing slash; "/index.html/" names a directory, not the file
	if urlPath != "/" && strings.HasSuffix(urlPath, "/") {
		return "", ErrNotFound
	}

	real, err := filepath.EvalSymlinks(name)
	if err != nil {
		return "", ErrNotFound
	}
	realRoot, err := filepath.EvalSymlinks(me.Root)
	if err != nil {
		return "", ErrNotFound
	}
	if !within(realRoot, real) {
		return "", ErrForbiddenPath
	}

	fi, err := os.Stat(real)
	if err != nil || fi.IsDir() {
		return "", ErrNotFound
	}
	return real, nil
}

func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultMimeType
}

// within reports whether name is root or lies below it.
func within(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
