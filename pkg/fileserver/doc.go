// Package fileserver implements the "file" server backend: a read-only view
// of server.root_dir.
//
// Files are served with http.ServeContent, so range requests, conditional
// requests and content type detection work as usual. Directory paths ending
// in "/" render an HTML listing with name, size and modification time,
// directories first. Any ".." segment is rejected with 400 and symlinks
// pointing outside the root are not followed.
package fileserver
