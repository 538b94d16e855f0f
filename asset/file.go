package asset

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"
)

// FileStore is a filesystem-backed [Store] that resolves a requested path
// against an ordered list of include directories, the way a shell resolves a
// command against PATH. The first directory under which path exists wins.
//
// An empty FileStore (no include directories added) resolves paths relative
// to the process's working directory, same as [os.Open].
type FileStore struct {
	include []string
}

// NewFileStore returns a FileStore searching dirs in order, in addition to
// the working directory. Duplicate and empty entries are removed.
func NewFileStore(dirs ...string) *FileStore {
	return &FileStore{include: dedupPath(dirs)}
}

// AddInclude appends dir to the search list if it is not already present,
// keeping the list free of duplicates the way a PATH variable is munged
// before use.
func (f *FileStore) AddInclude(dir string) {
	f.include = dedupPath(append(f.include, dir))
}

// Open implements [Store], searching the working directory followed by each
// include directory, in order, for path.
func (f *FileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if filepath.IsAbs(path) {
		return os.Open(path)
	}

	candidates := append([]string{"."}, f.include...)

	var firstErr error

	for _, dir := range candidates {
		file, err := os.Open(filepath.Join(dir, path))
		if err == nil {
			return file, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

// dedupPath munges dirs into an ordered, duplicate-free list using mung's
// PATH-list manipulation (spec §6 "include search path").
func dedupPath(dirs []string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	)
	if joined == "" {
		return nil
	}

	return filepath.SplitList(joined)
}
