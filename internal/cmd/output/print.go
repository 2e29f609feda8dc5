package output

import (
	"fmt"
	"io"

	"github.com/agentstation/souqmap/internal/cmd/constants"
	"github.com/agentstation/souqmap/internal/cmd/table"
)

// Print writes tabular in table formats and raw in every other format.
func Print(w io.Writer, format string, tabular table.Data, raw any) error {
	f, err := Resolve(format)
	if err != nil {
		return err
	}
	if IsTable(f) {
		return NewFormatter(f).Format(w, tabular)
	}
	return NewFormatter(f).Format(w, raw)
}

// Resolve detects the format when none is given and validates it.
func Resolve(format string) (Format, error) {
	return ParseFormat(string(DetectFormat(format)))
}

// Section writes a titled table. Nothing is written for an empty table.
func Section(w io.Writer, title string, data table.Data) error {
	if len(data.Rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	return NewFormatter(FormatTable).Format(w, data)
}

// IsTable reports whether f renders as a table.
func IsTable(f Format) bool {
	return f != "" && constants.IsTable(string(f))
}
