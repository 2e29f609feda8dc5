// Package normalizer converts raw source tables into canonical records.
//
// Each source path has its own column layout. The normalizer recognizes the
// canonical columns by their legacy French headers and English headers,
// fills what is missing with the documented defaults, flags cells that
// cannot be coerced, and tags every record with its source.
package normalizer

import (
	"fmt"
	"strings"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Issue flags a cell that could not be coerced into the canonical schema.
// The row is kept with the offending value replaced by its default.
type Issue struct {
	Source  records.SourceTag `json:"source" yaml:"source"`
	Row     int               `json:"row" yaml:"row"`
	Column  string            `json:"column" yaml:"column"`
	Value   string            `json:"value" yaml:"value"`
	Message string            `json:"message" yaml:"message"`
}

// String returns a printable form of the issue.
func (i Issue) String() string {
	return fmt.Sprintf("%s row %d: %s %q: %s", i.Source, i.Row, i.Column, i.Value, i.Message)
}

// Normalizer converts raw tables using the defaults of a rule set.
type Normalizer struct {
	rules *rules.Rules
}

// New creates a normalizer.
func New(r *rules.Rules) (*Normalizer, error) {
	if r == nil {
		return nil, &errors.ValidationError{Field: "rules", Message: "rules cannot be nil"}
	}
	return &Normalizer{rules: r}, nil
}

// Map API address parts, joined in this order.
var addressParts = []string{"addr:full", "addr:street", "addr:city"}

// Normalize converts a raw table seen on the given source path. A table that
// is nil or has no recognizable coordinate columns is reported as an
// unavailable source.
func (n *Normalizer) Normalize(table *tabular.Table, path records.SourceTag) ([]records.Record, []Issue, error) {
	if !path.IsValid() {
		return nil, nil, errors.NewValidationError("path", path, "unknown source path")
	}
	if table == nil {
		return nil, nil, errors.NewSourceUnavailableError(path.String(), "", fmt.Errorf("no table"))
	}
	if !table.Has(aliases(records.ColLatitude)...) || !table.Has(aliases(records.ColLongitude)...) {
		return nil, nil, errors.NewSourceUnavailableError(path.String(), table.Name,
			fmt.Errorf("no coordinate columns in %v", table.Columns))
	}

	out := make([]records.Record, 0, table.Len())
	var issues []Issue
	for i, row := range table.Rows {
		rec, rowIssues := n.record(row, path)
		for j := range rowIssues {
			rowIssues[j].Source = path
			rowIssues[j].Row = i + 1
		}
		issues = append(issues, rowIssues...)
		out = append(out, rec)
	}
	return out, issues, nil
}

func (n *Normalizer) record(row tabular.Row, path records.SourceTag) (records.Record, []Issue) {
	var issues []Issue
	d := n.rules.Defaults

	rec := records.Record{
		Name:      cell(row, records.ColName),
		Category:  cell(row, records.ColCategory),
		Address:   cell(row, records.ColAddress),
		ImageRef:  cell(row, records.ColImageRef),
		Zone:      d.Zone,
		Sector:    d.Sector,
		SourceTag: path,
	}

	for _, col := range []string{records.ColLatitude, records.ColLongitude} {
		raw := cell(row, col)
		v, err := records.ParseCoordinate(raw)
		if err != nil {
			issues = append(issues, Issue{Column: col, Value: raw, Message: "not a number, treated as missing"})
		}
		if col == records.ColLatitude {
			rec.Latitude = v
		} else {
			rec.Longitude = v
		}
	}

	if raw := cell(row, records.ColSector); raw != "" {
		if s, ok := records.ParseSector(raw); ok {
			rec.Sector = s
			rec.SectorPreset = true
		} else {
			issues = append(issues, Issue{Column: records.ColSector, Value: raw,
				Message: "unknown sector, defaulted to " + d.Sector.String()})
		}
	}

	switch path {
	case records.SourceMapAPI:
		rec.RawTag = n.mapAPITag(row, rec.Category)
		if rec.Address == "" {
			rec.Address = joinAddress(row)
		}
	case records.SourceSimulatedFeed:
		rec.RawTag = firstNonEmpty(row.Get("brand", "Enseigne"), rec.Category, rec.Name)
		if rec.Address == "" {
			rec.Address = d.Missing
		}
	default:
		rec.RawTag = rec.Category
		if rec.Address == "" {
			rec.Address = d.Missing
		}
	}
	return rec, issues
}

// Derive fills the fields that depend on the classified category: the
// placeholder name, the Map API address fallback and the icon.
func (n *Normalizer) Derive(rec *records.Record) {
	if rec.Category == "" {
		rec.Category = n.rules.Defaults.Missing
	}
	if rec.Name == "" {
		rec.Name = records.PlaceholderName(rec.Category)
	}
	if rec.Address == "" {
		rec.Address = rec.Name
	}
	if rec.ImageRef == "" {
		rec.ImageRef = n.rules.Icon(rec.Category)
	}
}

// mapAPITag picks the raw OSM tag. A combined tag column wins. Otherwise a
// known shop value is preferred over a known amenity value, and an unknown
// shop value over an unknown amenity value. Exports without OSM keys fall
// back to their category column.
func (n *Normalizer) mapAPITag(row tabular.Row, category string) string {
	if tag := row.Get("tag", "osm_tag"); tag != "" {
		return tag
	}
	shop, amenity := row.Get("shop"), row.Get("amenity")
	_, knownShop := n.rules.Shop[strings.ToLower(shop)]
	_, knownAmenity := n.rules.Amenity[strings.ToLower(amenity)]
	switch {
	case shop != "" && (knownShop || !knownAmenity):
		return "shop=" + shop
	case amenity != "":
		return "amenity=" + amenity
	}
	return category
}

func joinAddress(row tabular.Row) string {
	parts := make([]string, 0, len(addressParts))
	for _, key := range addressParts {
		if v := row.Get(key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func cell(row tabular.Row, column string) string {
	return row.Get(aliases(column)...)
}

func aliases(column string) []string {
	f, ok := records.Lookup(column)
	if !ok {
		return []string{column}
	}
	return append([]string{f.Name}, f.Aliases...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
