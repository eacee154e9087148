// Package csvdata loads the comma-separated files referenced by table and
// chart tags.
//
// The format is deliberately naive: lines are split on '\n' and fields on
// ','. Quoted fields and escaped commas are not supported, so a field that
// contains a literal comma is split in two. Rows are not checked against the
// header width; consumers tolerate ragged rows.
package csvdata

import (
	"fmt"
	"os"
	"strings"
)

// Table holds a header row and the data rows that follow it, in file order.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns the trimmed field at row r, column c, or "" when the row is
// shorter than c+1 fields.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// Parse splits content into a Table. Leading and trailing blank lines are
// ignored; empty content yields a Table with no header and no rows.
func Parse(content string) *Table {
	content = strings.TrimSpace(content)
	if content == "" {
		return &Table{}
	}

	lines := strings.Split(content, "\n")
	table := &Table{
		Header: splitFields(lines[0]),
		Rows:   make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		table.Rows = append(table.Rows, splitFields(line))
	}
	return table
}

// Load reads and parses the file at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the presentation's data directory
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
