package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// bomReader strips a leading UTF-8 byte order mark if there is one
func bomReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// bomWriter prefixes the output with a UTF-8 byte order mark so spreadsheet
// tools pick the right encoding
func bomWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
}

// writeFileAtomic writes through fn into a temporary file next to path and
// renames it into place, so readers never see a half-written artifact
func writeFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := bomWriter(tmp)
	if err = fn(enc); err != nil {
		return err
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
