package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"recetas-api/internal/common"
)

// DiskStore keeps blobs as plain files below root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("assets.NewDiskStore: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// resolve maps key into root. Cleaning against "/" strips any ".."
// segments, so the result never leaves root.
func (d *DiskStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", common.Validation("clave de archivo vacia")
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *DiskStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	const op = "assets.DiskStore.Save"

	p, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (d *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := d.resolve(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("assets.DiskStore.Open: %w", err)
	}
	if info.IsDir() {
		return nil, common.ErrNotFound
	}
	return os.Open(p)
}

func (d *DiskStore) Delete(_ context.Context, key string) error {
	p, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("assets.DiskStore.Delete: %w", err)
	}
	return nil
}

func (d *DiskStore) Exists(_ context.Context, key string) (bool, error) {
	p, err := d.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("assets.DiskStore.Exists: %w", err)
	}
	return !info.IsDir(), nil
}
