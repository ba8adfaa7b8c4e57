// Package storage provides the object store used for service bill photos.
// Objects live under {accountId}/{timestamp}.{ext} and are served back
// through a public URL prefix.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Store uploads binary blobs and issues public URLs for them.
type Store interface {
	Put(accountID int64, ext string, r io.Reader) (string, error)
}

// FileStore is a filesystem-backed Store.
type FileStore struct {
	root      string
	publicURL string
	// now is swappable for tests
	now func() time.Time
}

func NewFileStore(root, publicURL string) *FileStore {
	return &FileStore{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// Put stores the blob under {accountId}/{timestamp}.{ext} and returns its
// public URL.
func (s *FileStore) Put(accountID int64, ext string, r io.Reader) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	rel := fmt.Sprintf("%d/%d.%s", accountID, s.now().UnixMilli(), ext)

	dst := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "storage: mkdir")
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "storage: create")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "storage: write")
	}

	return s.publicURL + "/" + path.Clean(rel), nil
}

// Root returns the directory objects are stored under, for static serving.
func (s *FileStore) Root() string {
	return s.root
}
