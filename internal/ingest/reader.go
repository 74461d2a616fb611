// Package ingest locates and parses per-division statistics files.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/division-data-service/internal/domain"
)

// Reader resolves files under a data root laid out as
// <root>/<Division>/<file>, e.g. data/Rajshahi/temperature-Statistics.csv.
// It holds no state between reads and is safe for concurrent use.
type Reader struct {
	root string
}

// NewReader creates a Reader rooted at dir.
func NewReader(dir string) *Reader {
	return &Reader{root: dir}
}

// Root returns the data root directory.
func (r *Reader) Root() string { return r.root }

// DivisionDir returns the directory holding a division's files.
func (r *Reader) DivisionDir(d domain.Division) string {
	return filepath.Join(r.root, d.DirName())
}

// Read opens and parses one file of a division. A missing directory or file
// yields a file_not_found error, as does a regular file where the division
// directory belongs or a directory where the data file belongs. Malformed
// content yields a parse_error.
func (r *Reader) Read(ctx context.Context, d domain.Division, file string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(r.DivisionDir(d), file))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, domain.NewFileNotFound(d, file, err)
		}
		return nil, fmt.Errorf("open %s/%s: %w", d, file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s/%s: %w", d, file, err)
	}
	if info.IsDir() {
		return nil, domain.NewFileNotFound(d, file, fmt.Errorf("%s is a directory", f.Name()))
	}

	t, err := Parse(f)
	if err != nil {
		return nil, domain.NewParseError(d, file, err)
	}
	return t, nil
}

// CheckReadiness returns nil when the data root and every supported
// division's directory exist.
func (r *Reader) CheckReadiness(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requireDir(r.root); err != nil {
		return fmt.Errorf("data root: %w", err)
	}
	var errs []error
	for _, d := range domain.SupportedDivisions() {
		if err := requireDir(r.DivisionDir(d)); err != nil {
			errs = append(errs, fmt.Errorf("division %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
