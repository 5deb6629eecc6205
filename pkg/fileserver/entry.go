package fileserver

import (
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DirectoryEntry is one row of a directory listing.
type DirectoryEntry struct {
	// DisplayName is the base name, with a trailing slash for directories.
	DisplayName string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// Size is the human readable size; empty for directories.
	Size string

	// EntryPath is the URL path of the entry.
	EntryPath string

	// UpdatedAt is the modification time.
	UpdatedAt time.Time
}

// DirectoryIndex is the data rendered by the listing template.
type DirectoryIndex struct {
	// Path is the URL path of the listed directory.
	Path string

	// Parent is the URL path of the parent directory, empty at the root.
	Parent string

	// Entries are sorted directories first, then by name.
	Entries []DirectoryEntry
}

// newDirectoryIndex builds the listing of dirPath from its entries.
func newDirectoryIndex(dirPath string, infos []fs.FileInfo) DirectoryIndex {
	index := DirectoryIndex{Path: dirPath}
	if dirPath != "/" {
		index.Parent = path.Dir(strings.TrimSuffix(dirPath, "/"))
		if !strings.HasSuffix(index.Parent, "/") {
			index.Parent += "/"
		}
	}

	index.Entries = make([]DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		entry := DirectoryEntry{
			DisplayName: info.Name(),
			IsDir:       info.IsDir(),
			EntryPath:   path.Join(dirPath, info.Name()),
			UpdatedAt:   info.ModTime(),
		}
		if entry.IsDir {
			entry.DisplayName += "/"
			entry.EntryPath += "/"
		} else {
			entry.Size = humanize.IBytes(uint64(max(info.Size(), 0)))
		}
		index.Entries = append(index.Entries, entry)
	}

	sortEntries(index.Entries)
	return index
}

// sortEntries orders directories before files and each group by name.
func sortEntries(entries []DirectoryEntry) {
	slices.SortFunc(entries, func(a, b DirectoryEntry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.DisplayName, b.DisplayName)
	})
}
