package save

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Table writes the final table. With a writer the table is encoded to it
// directly. With a path the file is written, and if that fails the write is
// retried once under a timestamped sibling name. The returned path is the
// file actually written.
func Table(recs []records.Record, opts ...Option) (string, error) {
	options := Defaults().Apply(opts...)
	if !options.format.IsValid() {
		return "", errors.NewValidationError("format", options.format, "unsupported save format")
	}

	if options.writer != nil {
		return "", Encode(options.writer, recs, options.format)
	}
	if options.path == "" {
		return "", &errors.ValidationError{Field: "path", Message: "a path or a writer is required"}
	}

	err := writeFile(options.path, recs, options.format)
	if err == nil {
		return options.path, nil
	}

	fallback := FallbackPath(options.path, options.now().Unix())
	if ferr := writeFile(fallback, recs, options.format); ferr != nil {
		return "", &errors.PersistenceError{Path: options.path, Fallback: fallback, Err: ferr}
	}
	return fallback, nil
}

// FallbackPath inserts _<unix> before the extension: out.csv becomes
// out_1700000000.csv.
func FallbackPath(path string, unix int64) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), unix, ext)
}

// Encode writes the records in the given format.
func Encode(w io.Writer, recs []records.Record, format Format) error {
	switch format {
	case FormatCSV:
		rows := make([][]string, len(recs))
		for i := range recs {
			rows[i] = recs[i].Values()
		}
		return tabular.WriteCSV(w, records.Headers(), rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(recs, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return errors.WrapParse("yaml", "", err)
		}
		_, err = w.Write(data)
		return err
	}
	return errors.NewValidationError("format", format, "unsupported save format")
}

func writeFile(path string, recs []records.Record, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := Encode(f, recs, format); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}
