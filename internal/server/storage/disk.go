package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/marinesurvey/inspector/internal/filex"
)

// DiskStore keeps objects under a local directory. References have the form
// "<dirName>/<key>" so they can be served as static paths.
type DiskStore struct {
	root    string
	dirName string
}

func NewDiskStore(dirName string) (*DiskStore, error) {
	root, err := filex.EnsureDir(dirName)
	if err != nil {
		return nil, err
	}
	return &DiskStore{root: root, dirName: filepath.ToSlash(filepath.Clean(dirName))}, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o770); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	return path.Join(s.dirName, key), nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.dirName+"/")
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps key to a path inside root, rejecting traversal.
func (s *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}
