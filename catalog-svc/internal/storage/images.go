package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// LocalImageStore writes uploads under Dir and serves them from URLPrefix.
type LocalImageStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func NewLocalImageStore(dir, urlPrefix string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, URLPrefix: urlPrefix, MaxBytes: 10 << 20}
}

var ErrImageTooLarge = errors.New("image exceeds the upload limit")

func (s *LocalImageStore) Save(_ context.Context, name string, content io.Reader) (string, error) {
	name = filepath.Base(name)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(content, s.MaxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if n > s.MaxBytes {
		return "", ErrImageTooLarge
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", err
	}
	return path.Join(s.URLPrefix, name), nil
}
