package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/landhud/backend/internal/models"
)

// Store defines the interface for blob storage, addressed by filename.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}

// LocalStore implements Store on the local filesystem. Objects are
// stored under a uuid-prefixed filename so repeated uploads of the
// same list never collide.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir. baseURL is the
// public prefix used to build download URLs for saved objects.
func NewLocalStore(dir string, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the object and returns its metadata, including the
// public URL clients hand back to the submit endpoint.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	stored := uuid.New().String() + "_" + sanitize(name)
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating blob file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing blob file: %w", err)
	}

	return &models.FileInfo{
		ID:   stored,
		Name: stored,
		Size: size,
		URL:  s.baseURL + "/api/files/" + stored,
	}, nil
}

// Open returns a reader for the named object.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, sanitize(name)))
	if err != nil {
		return nil, fmt.Errorf("opening blob %q: %w", name, err)
	}
	return f, nil
}

// Remove deletes the named object. Removing a name that does not
// exist is not an error.
func (s *LocalStore) Remove(name string) error {
	path := filepath.Join(s.dir, sanitize(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob %q: %w", name, err)
	}
	return nil
}

// sanitize strips any path components from a client-supplied name.
func sanitize(name string) string {
	return filepath.Base(strings.ReplaceAll(name, "\\", "/"))
}
