// Package table converts souqmap values into rows for the table formatter.
package table

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/agentstation/souqmap/pkg/reconciler"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/zones"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts canonical records to table format. The wide
// form adds the address, image reference and coordinates.
func RecordsToTableData(recs []records.Record, wide bool) Data {
	headers := []string{"Zone", "Name", "Category", "Sector", "Source"}
	if wide {
		headers = append(headers, "Address", "Latitude", "Longitude", "Image")
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := []string{rec.Zone, rec.Name, rec.Category, string(rec.Sector), string(rec.SourceTag)}
		if wide {
			row = append(row,
				rec.Address,
				records.FormatCoordinate(rec.Latitude),
				records.FormatCoordinate(rec.Longitude),
				rec.ImageRef,
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// ZonesToTableData lists zone boxes in matching order.
func ZonesToTableData(zs []zones.Zone) Data {
	rows := make([][]string, 0, len(zs))
	for i, z := range zs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			z.Name,
			formatFloat(z.Bound.Min.Lat()),
			formatFloat(z.Bound.Max.Lat()),
			formatFloat(z.Bound.Min.Lon()),
			formatFloat(z.Bound.Max.Lon()),
		})
	}
	return Data{
		Headers:         []string{"#", "Zone", "Lat Min", "Lat Max", "Lon Min", "Lon Max"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// CountsToTableData renders a breakdown with the share of total for each
// key, largest first.
func CountsToTableData[K ~string](label string, counts map[K]int, total int) Data {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{string(k), strconv.Itoa(counts[k]), share(counts[k], total)})
	}
	return Data{
		Headers:         []string{label, "Count", "Share"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// StagesToTableData renders the per-stage counts of a run.
func StagesToTableData(stages []reconciler.StageResult) Data {
	rows := make([][]string, 0, len(stages))
	for _, s := range stages {
		status := "ok"
		if !s.OK() {
			status = fmt.Sprintf("%d errors", len(s.Errors))
		}
		rows = append(rows, []string{
			s.Stage.String(),
			strconv.Itoa(s.Input),
			strconv.Itoa(s.Output),
			s.Duration.Round(time.Microsecond).String(),
			status,
		})
	}
	return Data{
		Headers:         []string{"Stage", "In", "Out", "Duration", "Status"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// KeyValueToTableData renders ordered property/value pairs.
func KeyValueToTableData(pairs ...[2]string) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
