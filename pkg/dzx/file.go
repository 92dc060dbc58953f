package dzx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Open reads and decodes the container at path.
// It maps the file read-only when mmap is available and falls back to
// ReadAt-based loading otherwise. The mapping is released before returning.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrCorruptFile
	}
	size := int(size64)
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorruptFile, path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		c, decErr := Decode(data)
		if unmapErr := unix.Munmap(data); decErr == nil && unmapErr != nil {
			return nil, unmapErr
		}
		return c, decErr
	}

	return OpenReaderAt(f, size64)
}

// OpenReaderAt loads and decodes a container from a random-access reader.
func OpenReaderAt(r io.ReaderAt, size int64) (*Container, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrCorruptFile
	}
	data := make([]byte, size)
	var off int64
	for off < size {
		n, err := r.ReadAt(data[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == size {
			break
		}
		return nil, err
	}
	return Decode(data)
}

// Save encodes the container and atomically replaces path with the result.
func (c *Container) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
