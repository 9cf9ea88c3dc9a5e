package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

// LocalService stores files on the local filesystem under a base directory.
type LocalService struct {
	baseDir string
}

func NewLocalService(baseDir string) (*LocalService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalService{baseDir: baseDir}, nil
}

func (s *LocalService) Save(ctx context.Context, key string, r io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Dependency("storage", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return domain.Dependency("storage", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return domain.Dependency("storage", err)
	}
	return nil
}

func (s *LocalService) Delete(ctx context.Context, key string) (DeleteResult, error) {
	path, err := s.resolve(key)
	if err != nil {
		return AlreadyAbsent, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return AlreadyAbsent, nil
		}
		return AlreadyAbsent, domain.Dependency("storage", err)
	}
	return Deleted, nil
}

func (s *LocalService) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, domain.Dependency("storage", err)
	}
	return true, nil
}

func (s *LocalService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NotFound("file", key)
		}
		return nil, domain.Dependency("storage", err)
	}
	return f, nil
}

// resolve maps a key onto the base directory, refusing path escapes.
func (s *LocalService) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", domain.Validationf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}
