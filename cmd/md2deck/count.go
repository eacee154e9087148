package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ErrWriteFile indicates a CLI output file could not be written.
var ErrWriteFile = errors.New("failed to write file")

// TagUsageFile is written by the count command under the data directory,
// where table and chart tags can read it back.
const TagUsageFile = "tags-usage.csv"

// countLabels are the row labels of the tag usage CSV.
var countLabels = map[tags.Kind]string{
	tags.KindImage:  "Images",
	tags.KindTable:  "Tables",
	tags.KindChart:  "Charts",
	tags.KindVideo:  "Videos",
	tags.KindScript: "Scripts",
}

// runCount counts the tags in the presentation source and writes
// <data>/tags-usage.csv.
func runCount(args []string, env *Environment) error {
	flags, positional, err := parseCountFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	dir, err := resolveDir(positional, env)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(dir, flags.config)
	if err != nil {
		return withHints(fmt.Errorf("loading config: %w", err), dir, nil)
	}

	srcPath := filepath.Join(dir, cfg.Paths.Content)
	source, err := os.ReadFile(srcPath) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return withHints(fmt.Errorf("%w: %s", md2deck.ErrSourceNotFound, srcPath), dir, cfg)
		}
		return fmt.Errorf("%w: %v", md2deck.ErrSourceRead, err)
	}

	counts := tags.Count(string(source))

	data, err := encodeTagUsage(counts)
	if err != nil {
		return err
	}

	dataDir := filepath.Join(dir, cfg.Paths.Data)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWriteFile, dataDir, err)
	}
	outPath := filepath.Join(dataDir, TagUsageFile)
	if err := fileutil.WriteFileAtomic(outPath, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	if !flags.quiet {
		printTagUsage(env.Stdout, counts)
		fmt.Fprintf(env.Stdout, "✓ Wrote %s\n", relTo(dir, outPath))
	}
	return nil
}

// encodeTagUsage renders the "Tag Type,Count" CSV in tags.Kinds order.
func encodeTagUsage(counts map[tags.Kind]int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"Tag Type", "Count"}}
	for _, kind := range tags.Kinds {
		records = append(records, []string{countLabels[kind], strconv.Itoa(counts[kind])})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encoding tag usage: %w", err)
	}
	return buf.Bytes(), nil
}

func printTagUsage(w io.Writer, counts map[tags.Kind]int) {
	fmt.Fprintln(w, "Tag usage:")
	for _, kind := range tags.Kinds {
		fmt.Fprintf(w, "  %-8s %d\n", countLabels[kind], counts[kind])
	}
}
