package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
)

// LocalStore writes images into a directory served at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
	clock   clock.Clock
}

func NewLocalStore(dir, baseURL string, clk clock.Clock) *LocalStore {
	return &LocalStore{dir: dir, baseURL: baseURL, clock: clk}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	name, err := ObjectName(filename, s.clock.Now())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return publicURL(s.baseURL, name), nil
}
