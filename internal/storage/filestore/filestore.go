package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	// Save writes r under a unique name derived from name and returns the stored path.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open returns a reader for a stored path. Missing files wrap fs.ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a stored path. Missing files are not an error.
	Delete(ctx context.Context, path string) error
}

var ErrOutsideRoot = errors.New("filestore: path is outside the store")

// Disk stores attachments in a single directory.
type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if root == "" {
		return nil, errors.New("filestore: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &Disk{root: root}, nil
}

// UniqueName turns "Budget Plan.pdf" into "Budget-Plan-<uuid>.pdf".
func UniqueName(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.Join(strings.Fields(base), "-")
	if base == "" {
		base = "file"
	}
	return base + "-" + uuid.NewString() + ext
}

func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(d.root, UniqueName(name))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("filestore: create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("filestore: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("filestore: close %s: %w", path, err)
	}
	return path, nil
}

// within rejects anything that does not resolve to a file directly under root.
func (d *Disk) within(path string) error {
	rel, err := filepath.Rel(d.root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return nil
}

func (d *Disk) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.within(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s: %w", path, err)
	}
	if st, err := f.Stat(); err != nil || st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("filestore: open %s: %w", path, fs.ErrNotExist)
	}
	return f, nil
}

func (d *Disk) Delete(_ context.Context, path string) error {
	if err := d.within(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: delete %s: %w", path, err)
	}
	return nil
}
