package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"taskflow/internal/service"
)

// DiskStore keeps uploaded files on the local filesystem. It implements
// service.FileStore; the external id is the generated file name.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

func (s *DiskStore) Store(ctx context.Context, name string, content io.Reader) (service.StoredFile, error) {
	// Never trust the client-supplied name for the on-disk path.
	externalID := uuid.New().String() + filepath.Ext(filepath.Base(name))

	f, err := os.Create(filepath.Join(s.dir, externalID))
	if err != nil {
		return service.StoredFile{}, err
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(f.Name())
		return service.StoredFile{}, err
	}

	return service.StoredFile{
		URL:        s.baseURL + "/" + externalID,
		ExternalID: externalID,
		Size:       size,
	}, nil
}

// Delete removes the object; a missing object is not an error, so repeated
// cleanup attempts stay idempotent.
func (s *DiskStore) Delete(ctx context.Context, externalID string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(externalID)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
