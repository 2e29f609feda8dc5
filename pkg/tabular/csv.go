package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
)

// ReadCSV parses a CSV stream into a table. A leading UTF-8 byte order mark
// is stripped. Rows with a different number of fields than the header are
// rejected.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", name, "missing header row", err)
	}
	if err != nil {
		return nil, errors.WrapParse("csv", name, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := New(name, columns...)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", name, err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = rec[i]
		}
		table.Append(row)
	}
	return table, nil
}

// ReadFile opens and parses a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, filepath.Base(path))
}

// WriteCSV writes the header and records as UTF-8 CSV with a byte order mark,
// which spreadsheet tools need to detect the encoding.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	encoded := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(encoded)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return encoded.Close()
}

// WriteFile writes a table to path, creating parent directories.
func WriteFile(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := WriteCSV(f, t.Columns, t.Records()); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

// Latest returns the most recently modified file matching the glob pattern.
// A pattern without glob metacharacters is returned as is when it exists.
func Latest(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", errors.NewValidationError("pattern", pattern, err.Error())
	}
	var (
		latest string
		newest int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > newest {
			latest, newest = m, mod
		}
	}
	if latest == "" {
		return "", errors.NewNotFoundError("file", pattern)
	}
	return latest, nil
}
