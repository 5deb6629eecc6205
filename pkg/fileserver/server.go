package fileserver

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// FileServer serves a directory tree read-only. Directories without an
// index render an HTML listing.
//
// All access goes through an os.Root, so neither ".." segments nor
// symlinks can reach files outside the root directory.
type FileServer struct {
	rootDir string
	root    *os.Root
	logger  *slog.Logger
}

// New opens rootDir for serving. The directory must exist.
func New(rootDir string) (*FileServer, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory %q: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", rootDir)
	}

	root, err := os.OpenRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory %q: %w", rootDir, err)
	}

	return &FileServer{
		rootDir: rootDir,
		root:    root,
		logger:  slog.Default().With("component", "fileserver"),
	}, nil
}

// RootDir returns the served directory.
func (s *FileServer) RootDir() string {
	return s.rootDir
}

// Close releases the root directory handle.
func (s *FileServer) Close() error {
	return s.root.Close()
}

// ServeHTTP implements http.Handler. Only GET and HEAD are accepted.
func (s *FileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	urlPath := r.URL.Path
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	if hasDotDot(urlPath) {
		s.logger.WarnContext(r.Context(), "path traversal rejected", "path", r.URL.Path)
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	name := relativeName(urlPath)
	f, err := s.root.Open(name)
	if err != nil {
		s.writeOpenError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeOpenError(w, r, err)
		return
	}

	if info.IsDir() {
		if !strings.HasSuffix(urlPath, "/") {
			http.Redirect(w, r, path.Base(urlPath)+"/", http.StatusMovedPermanently)
			return
		}
		s.serveDirectory(w, r, urlPath, f)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *FileServer) serveDirectory(w http.ResponseWriter, r *http.Request, urlPath string, dir *os.File) {
	entries, err := dir.ReadDir(-1)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to read directory", "path", urlPath, "error", err)
		http.Error(w, "failed to read directory", http.StatusInternalServerError)
		return
	}

	infos := make([]fs.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		infos = append(infos, info)
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, newDirectoryIndex(urlPath, infos)); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render listing", "path", urlPath, "error", err)
		http.Error(w, "failed to render listing", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *FileServer) writeOpenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		// os.Root reports symlink escapes as plain errors.
		s.logger.WarnContext(r.Context(), "failed to open path", "path", r.URL.Path, "error", err)
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// hasDotDot reports whether any segment of p is "..".
func hasDotDot(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

// relativeName converts a URL path to a name relative to the root.
func relativeName(urlPath string) string {
	name := strings.Trim(path.Clean(urlPath), "/")
	if name == "" {
		return "."
	}
	return name
}
