package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps uploads in a directory on the local filesystem.
type Local struct {
	root string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{root: filepath.Clean(dir)}, nil
}

func (s *Local) Save(_ context.Context, name string, data []byte) (string, error) {
	dest := filepath.Join(s.root, name)
	if err := s.check(dest); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, data, 0o640); err != nil { //nolint:gosec // dest confined to root by check
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return dest, nil
}

func (s *Local) Read(_ context.Context, location string) ([]byte, error) {
	if err := s.check(location); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location) //nolint:gosec // location confined to root by check
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *Local) Delete(_ context.Context, location string) error {
	if err := s.check(location); err != nil {
		return err
	}
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Local) check(location string) error {
	rel, err := filepath.Rel(s.root, filepath.Clean(location))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrInvalidPath, location)
	}
	return nil
}
