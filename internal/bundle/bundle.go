// Package bundle packs a built deck into a reproducible tar.xz archive.
//
// Entries are written in sorted path order with a fixed modification time
// and zeroed ownership, so bundling the same output twice yields identical
// bytes.
package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/natefinch/atomic"
	"github.com/ulikunitz/xz"
)

// Extension is the conventional file extension of a bundle.
const Extension = ".tar.xz"

// ModTime is stamped on every entry.
var ModTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Sentinel errors for bundle operations.
var (
	ErrNotDirectory = errors.New("bundle source is not a directory")
	ErrEmptySource  = errors.New("bundle source is empty")
)

// Entry describes one archived file or directory.
type Entry struct {
	Name string // slash-separated, prefixed
	Size int64
	Dir  bool
}

// Write archives srcDir into w as tar.xz. Entry names are prefix/relpath;
// an empty prefix stores paths relative to srcDir.
func Write(w io.Writer, srcDir, prefix string) ([]Entry, error) {
	paths, err := collect(srcDir)
	if err != nil {
		return nil, err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("creating xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	entries := make([]Entry, 0, len(paths))
	for _, rel := range paths {
		entry, err := writeEntry(tw, srcDir, rel, prefix)
		if err != nil {
			_ = tw.Close()
			_ = xw.Close()
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := tw.Close(); err != nil {
		_ = xw.Close()
		return nil, fmt.Errorf("closing tar stream: %w", err)
	}
	if err := xw.Close(); err != nil {
		return nil, fmt.Errorf("closing xz stream: %w", err)
	}
	return entries, nil
}

// Create archives srcDir into dstPath. The archive is streamed into a
// temporary file and renamed into place, so dstPath never holds a partial
// bundle.
func Create(srcDir, dstPath, prefix string) ([]Entry, error) {
	pr, pw := io.Pipe()

	type result struct {
		entries []Entry
		err     error
	}
	done := make(chan result, 1)
	go func() {
		entries, err := Write(pw, srcDir, prefix)
		pw.CloseWithError(err)
		done <- result{entries, err}
	}()

	writeErr := atomic.WriteFile(dstPath, pr)
	_ = pr.CloseWithError(writeErr)
	res := <-done

	if res.err != nil {
		return nil, res.err
	}
	if writeErr != nil {
		return nil, fmt.Errorf("writing %s: %w", dstPath, writeErr)
	}
	return res.entries, nil
}

// List returns the entry names of a tar.xz archive in stored order.
func List(r io.Reader) ([]string, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xz stream: %w", err)
	}

	var names []string
	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}
		names = append(names, hdr.Name)
	}
}

// collect returns the slash-separated relative paths under srcDir, sorted.
func collect(srcDir string) ([]string, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, srcDir)
	}

	var paths []string
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() || d.Type().IsRegular() {
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, srcDir)
	}

	sort.Strings(paths)
	return paths, nil
}

func writeEntry(tw *tar.Writer, srcDir, rel, prefix string) (Entry, error) {
	full := filepath.Join(srcDir, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", full, err)
	}

	name := rel
	if prefix != "" {
		name = path.Join(prefix, rel)
	}

	hdr := &tar.Header{
		Name:    name,
		ModTime: ModTime,
	}
	if info.IsDir() {
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
		hdr.Mode = 0o755
	} else {
		hdr.Typeflag = tar.TypeReg
		hdr.Mode = 0o644
		hdr.Size = info.Size()
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return Entry{}, fmt.Errorf("writing header for %s: %w", name, err)
	}

	if !info.IsDir() {
		f, err := os.Open(full) // #nosec G304 -- walked from the output directory
		if err != nil {
			return Entry{}, fmt.Errorf("opening %s: %w", full, err)
		}
		_, err = io.Copy(tw, f)
		_ = f.Close()
		if err != nil {
			return Entry{}, fmt.Errorf("archiving %s: %w", full, err)
		}
	}

	return Entry{Name: hdr.Name, Size: hdr.Size, Dir: info.IsDir()}, nil
}
