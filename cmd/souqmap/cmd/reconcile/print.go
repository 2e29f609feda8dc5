package reconcile

import (
	"fmt"
	"io"

	"github.com/agentstation/souqmap/internal/cmd/emoji"
	"github.com/agentstation/souqmap/internal/cmd/output"
	"github.com/agentstation/souqmap/internal/cmd/table"
	"github.com/agentstation/souqmap/pkg/reconciler"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/sources"
)

// Summary is the structured form of a run printed in JSON and YAML formats.
type Summary struct {
	RunID    string                      `json:"run_id" yaml:"run_id"`
	Path     string                      `json:"path,omitempty" yaml:"path,omitempty"`
	Sources  []sources.ID                `json:"sources" yaml:"sources"`
	Skipped  []sources.ID                `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Stats    reconciler.ResultStatistics `json:"stats" yaml:"stats"`
	Stages   []reconciler.StageResult    `json:"stages" yaml:"stages"`
	Warnings []string                    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Records  []records.Record            `json:"records,omitempty" yaml:"records,omitempty"`
}

// NewSummary builds the summary of a run saved to path.
func NewSummary(result *reconciler.Result, path string, withRecords bool) Summary {
	s := Summary{
		RunID:    result.RunID,
		Path:     path,
		Sources:  result.Metadata.Sources,
		Skipped:  result.Metadata.Skipped,
		Stats:    result.Metadata.Stats,
		Stages:   result.Stages,
		Warnings: result.Warnings,
	}
	if withRecords {
		s.Records = result.Records
	}
	return s
}

type section struct {
	title string
	data  table.Data
}

func printResult(w io.Writer, format string, result *reconciler.Result, path string, withRecords bool) error {
	f, err := output.Resolve(format)
	if err != nil {
		return err
	}
	if !output.IsTable(f) {
		return output.NewFormatter(f).Format(w, NewSummary(result, path, withRecords))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "%s %s\n", emoji.Warning, warning)
	}
	for _, id := range result.Metadata.Skipped {
		fmt.Fprintf(w, "%s source %s skipped\n", emoji.Skipped, id)
	}
	fmt.Fprintf(w, "%s %s\n", emoji.Success, result.Summary())

	stats := result.Metadata.Stats
	sections := []section{
		{"Stages", table.StagesToTableData(result.Stages)},
		{"By source", table.CountsToTableData("Source", stats.BySource, stats.Final)},
		{"By sector", table.CountsToTableData("Sector", stats.BySector, stats.Final)},
		{"By zone", table.CountsToTableData("Zone", stats.ByZone, stats.Final)},
		{"By category", table.CountsToTableData("Category", stats.ByCategory, stats.Final)},
	}
	if withRecords {
		sections = append(sections, section{"Records", table.RecordsToTableData(result.Records, f == output.FormatWide)})
	}
	for _, s := range sections {
		if err := output.Section(w, s.title, s.data); err != nil {
			return err
		}
	}

	if path != "" {
		fmt.Fprintf(w, "\n%s Saved %d records to %s\n", emoji.Success, len(result.Records), path)
	}
	return nil
}
