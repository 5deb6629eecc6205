package fileserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "maps", "floor-2"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "maps", "b1.json"), []byte(`{"floor":-1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "maps", "a.bin"), make([]byte, 2048), 0o644))
	return root
}

func newTestServer(t *testing.T, root string) *FileServer {
	t.Helper()
	fsrv, err := New(root)
	require.NoError(t, err)
	t.Cleanup(func() { fsrv.Close() })
	return fsrv
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestFileServer_ServesFile(t *testing.T) {
	fsrv := newTestServer(t, newTestTree(t))

	w := serve(fsrv, http.MethodGet, "/maps/b1.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"floor":-1}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))
}

func TestFileServer_DirectoryListing(t *testing.T) {
	fsrv := newTestServer(t, newTestTree(t))

	w := serve(fsrv, http.MethodGet, "/maps/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Index of /maps/")
	assert.Contains(t, body, `href="/maps/floor-2/"`)
	assert.Contains(t, body, "2.0 KiB")
	assert.Contains(t, body, `href="/"`, "parent link")

	dir := strings.Index(body, "floor-2/")
	fileA := strings.Index(body, "a.bin")
	fileB := strings.Index(body, "b1.json")
	assert.True(t, dir < fileA && fileA < fileB, "directories first, then files by name")
}

func TestFileServer_RootListingHasNoParent(t *testing.T) {
	fsrv := newTestServer(t, newTestTree(t))

	w := serve(fsrv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "../")
	assert.Contains(t, w.Body.String(), "readme.txt")
}

func TestFileServer_DirectoryRedirect(t *testing.T) {
	fsrv := newTestServer(t, newTestTree(t))

	w := serve(fsrv, http.MethodGet, "/maps")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/maps/", w.Header().Get("Location"))
}

func TestFileServer_RejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))
	fsrv := newTestServer(t, root)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secret.txt"
	w := httptest.NewRecorder()
	fsrv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestFileServer_RejectsSymlinkEscape(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "public")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))
	if err := os.Symlink(filepath.Join(parent, "secret.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	fsrv := newTestServer(t, root)

	w := serve(fsrv, http.MethodGet, "/link.txt")
	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestFileServer_NotFoundAndMethods(t *testing.T) {
	fsrv := newTestServer(t, newTestTree(t))

	assert.Equal(t, http.StatusNotFound, serve(fsrv, http.MethodGet, "/missing.txt").Code)

	w := serve(fsrv, http.MethodPost, "/readme.txt")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestSortEntries(t *testing.T) {
	now := time.Now()
	entries := []DirectoryEntry{
		{DisplayName: "z.txt", UpdatedAt: now},
		{DisplayName: "b/", IsDir: true},
		{DisplayName: "a.txt"},
		{DisplayName: "a/", IsDir: true},
	}
	sortEntries(entries)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.DisplayName
	}
	assert.Equal(t, []string{"a/", "b/", "a.txt", "z.txt"}, names)
}
