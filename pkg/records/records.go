// Package records defines the canonical point-of-sale record that every source
// is normalized into, along with the sector and provenance enumerations and
// the ordered schema used when the final table is written.
package records

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/souqmap/pkg/constants"
)

// Sector is the economic classification of a point of sale.
type Sector string

// Sector values. Unclassified is a terminal value, not a missing one.
const (
	SectorFormal       Sector = "Formel"
	SectorInformal     Sector = "Informel"
	SectorUnclassified Sector = "Non classifié"
)

// Sectors returns every sector in reporting order.
func Sectors() []Sector {
	return []Sector{SectorFormal, SectorInformal, SectorUnclassified}
}

// String returns the string representation of a sector.
func (s Sector) String() string {
	return string(s)
}

// IsValid returns true if the sector is one of the defined constants.
func (s Sector) IsValid() bool {
	return slices.Contains(Sectors(), s)
}

// ParseSector accepts the French labels written by the legacy tooling as well
// as their English equivalents, case-insensitively.
func ParseSector(s string) (Sector, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "formel", "formal":
		return SectorFormal, true
	case "informel", "informal":
		return SectorInformal, true
	case "non classifié", "non classifie", "unclassified":
		return SectorUnclassified, true
	}
	return "", false
}

// SourceTag identifies the ingestion path a record came through.
type SourceTag string

// Source tags, using the labels found in the legacy Source column.
const (
	SourceMapAPI        SourceTag = "OSM"
	SourceSimulatedFeed SourceTag = "ATP"
	SourceLegacy        SourceTag = "Existant"
)

// SourceTags returns the tags in concatenation order. The order decides
// which copy of a duplicate survives.
func SourceTags() []SourceTag {
	return []SourceTag{SourceMapAPI, SourceSimulatedFeed, SourceLegacy}
}

// String returns the string representation of a source tag.
func (t SourceTag) String() string {
	return string(t)
}

// IsValid returns true if the tag is one of the defined constants.
func (t SourceTag) IsValid() bool {
	return slices.Contains(SourceTags(), t)
}

// Rank returns the position of the tag in concatenation order, or -1.
func (t SourceTag) Rank() int {
	return slices.Index(SourceTags(), t)
}

// Record is a canonical point of sale.
type Record struct {
	Zone      string    `json:"zone" yaml:"zone"`
	Name      string    `json:"name" yaml:"name"`
	Category  string    `json:"category" yaml:"category"`
	Sector    Sector    `json:"sector" yaml:"sector"`
	Address   string    `json:"address" yaml:"address"`
	Latitude  *float64  `json:"latitude" yaml:"latitude"`
	Longitude *float64  `json:"longitude" yaml:"longitude"`
	ImageRef  string    `json:"image_ref" yaml:"image_ref"`
	SourceTag SourceTag `json:"source_tag" yaml:"source_tag"`

	// RawTag is the source-specific tag or label the category was derived from.
	RawTag string `json:"raw_tag,omitempty" yaml:"raw_tag,omitempty"`

	// SectorPreset is set when the source supplied its own valid sector.
	SectorPreset bool `json:"-" yaml:"-"`
}

// Geolocated reports whether both coordinates are present and finite.
func (r *Record) Geolocated() bool {
	return r.Latitude != nil && r.Longitude != nil &&
		!math.IsNaN(*r.Latitude) && !math.IsNaN(*r.Longitude)
}

// HasZeroCoordinate reports whether either coordinate is exactly zero.
func (r *Record) HasZeroCoordinate() bool {
	return (r.Latitude != nil && *r.Latitude == 0) || (r.Longitude != nil && *r.Longitude == 0)
}

// Key returns the identity key. Only meaningful for geolocated records.
func (r *Record) Key() Key {
	k := Key{Name: r.Name}
	if r.Latitude != nil {
		k.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		k.Longitude = *r.Longitude
	}
	return k
}

// Values returns the record formatted in Schema order.
func (r *Record) Values() []string {
	return []string{
		r.Zone,
		r.Name,
		r.Category,
		r.Sector.String(),
		r.Address,
		FormatCoordinate(r.Latitude),
		FormatCoordinate(r.Longitude),
		r.ImageRef,
		r.SourceTag.String(),
	}
}

// Key identifies a physical point of sale: two records sharing a key are the
// same shop. Matching is exact.
type Key struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// String returns a printable form of the key.
func (k Key) String() string {
	return fmt.Sprintf("%s@%s,%s", k.Name,
		strconv.FormatFloat(k.Latitude, 'f', -1, 64),
		strconv.FormatFloat(k.Longitude, 'f', -1, 64))
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// PlaceholderName builds the name given to a shop the source left unnamed.
func PlaceholderName(category string) string {
	return category + " " + constants.UnnamedSuffix
}

// FormatCoordinate renders a coordinate with the shortest exact representation.
// Missing coordinates render as the empty string.
func FormatCoordinate(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ParseCoordinate coerces a raw cell into a coordinate. Empty cells and the
// usual null spellings yield nil without error.
func ParseCoordinate(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a":
		return nil, nil
	}
	// Some exports use a decimal comma.
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a coordinate: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}
