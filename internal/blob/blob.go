package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists uploaded files and returns an opaque reference string.
type Store interface {
	Save(name string, r io.Reader) (string, error)
}

// DiskStore writes uploads under a base directory with timestamp-prefixed
// filenames, matching the legacy receipt uploader.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ref := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(name))
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return ref, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
