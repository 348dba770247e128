package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var ErrInvalidPath = errors.New("invalid blob path")

// Disk stores blobs on an afero filesystem, keyed by slash separated paths
// relative to its root.
type Disk struct {
	fs        afero.Fs
	publicUrl string
}

// NewDisk opens a disk rooted at the directory root of the host filesystem.
func NewDisk(root, publicUrl string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create disk root %s: %w", root, err)
	}
	return NewDiskOn(afero.NewBasePathFs(afero.NewOsFs(), root), publicUrl), nil
}

// NewDiskOn wraps an existing filesystem, e.g. afero.NewMemMapFs() in tests.
func NewDiskOn(fs afero.Fs, publicUrl string) *Disk {
	return &Disk{fs: fs, publicUrl: strings.TrimRight(publicUrl, "/")}
}

// clean validates key and returns its canonical form. Keys that escape the
// root or name the root itself are rejected.
func clean(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
		}
	}
	return cleaned, nil
}

func (d *Disk) Put(key string, r io.Reader) error {
	name, err := clean(key)
	if err != nil {
		return err
	}

	if err := d.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return err
	}

	f, err := d.fs.Create(name)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		d.fs.Remove(name)
		return err
	}

	return f.Close()
}

// PutUpload copies a multipart upload to key.
func (d *Disk) PutUpload(key string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	return d.Put(key, src)
}

// Open returns a reader over the blob at key. The caller closes it.
func (d *Disk) Open(key string) (afero.File, error) {
	name, err := clean(key)
	if err != nil {
		return nil, err
	}
	return d.fs.Open(name)
}

func (d *Disk) Exists(key string) bool {
	name, err := clean(key)
	if err != nil {
		return false
	}
	info, err := d.fs.Stat(name)
	return err == nil && !info.IsDir()
}

// Delete removes key. Deleting a missing blob is not an error.
func (d *Disk) Delete(key string) error {
	name, err := clean(key)
	if err != nil {
		return err
	}
	if err := d.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Disk) Url(key string) string {
	return d.publicUrl + "/" + strings.TrimLeft(key, "/")
}
