// Package fileutil provides file and path utility functions.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/zeebo/blake3"
)

// FilePerm is the mode of every file written into the output directory.
const FilePerm fs.FileMode = 0o644

// ErrNotDirectory indicates a path expected to be a directory is a file.
var ErrNotDirectory = errors.New("not a directory")

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "talk" -> false (name)
//   - "./talk.yaml" -> true (relative path)
//   - "/absolute/talk.yaml" -> true (absolute)
//   - "C:\decks\talk.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// WriteFileAtomic replaces path with data so readers never observe a
// partially written file. The result has mode FilePerm.
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, bytes.NewReader(data))
}

func writeAtomic(path string, r io.Reader) error {
	if err := atomic.WriteFile(path, r); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(path, FilePerm); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	return nil
}

// Digest returns the BLAKE3-256 digest of the file at path.
func Digest(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-controlled asset path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// CopyFailure records one file that could not be copied.
type CopyFailure struct {
	Name string
	Err  error
}

// CopyReport lists the outcome of a flat directory copy, by file name.
type CopyReport struct {
	Copied    []string
	Unchanged []string
	Failed    []CopyFailure
}

// Total returns the number of regular files considered.
func (r *CopyReport) Total() int {
	return len(r.Copied) + len(r.Unchanged) + len(r.Failed)
}

// CopyFlat copies the regular files directly inside src into dst, creating
// dst if needed. Subdirectories are not descended into. A missing src is
// not an error and yields an empty report. Each file is copied
// independently: a failure is recorded in the report and the copy moves on.
// Files whose destination already has the same BLAKE3 digest are left alone.
func CopyFlat(src, dst string) (*CopyReport, error) {
	report := &CopyReport{}

	if err := os.MkdirAll(dst, 0o750); err != nil {
		return report, fmt.Errorf("creating %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		if info, statErr := os.Stat(src); statErr == nil && !info.IsDir() {
			return report, fmt.Errorf("%w: %s", ErrNotDirectory, src)
		}
		return report, fmt.Errorf("reading %s: %w", src, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		same, err := sameContent(srcPath, dstPath)
		if err != nil {
			report.Failed = append(report.Failed, CopyFailure{Name: name, Err: err})
			continue
		}
		if same {
			report.Unchanged = append(report.Unchanged, name)
			continue
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			report.Failed = append(report.Failed, CopyFailure{Name: name, Err: err})
			continue
		}
		report.Copied = append(report.Copied, name)
	}

	return report, nil
}

// sameContent reports whether dst exists with the same digest as src.
func sameContent(src, dst string) (bool, error) {
	if !FileExists(dst) {
		return false, nil
	}
	want, err := Digest(src)
	if err != nil {
		return false, err
	}
	got, err := Digest(dst)
	if err != nil {
		return false, nil
	}
	return bytes.Equal(want, got), nil
}

func copyFile(src, dst string) error {
	f, err := os.Open(src) // #nosec G304 -- entry of the configured asset directory
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return writeAtomic(dst, f)
}
