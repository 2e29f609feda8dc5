// Package rules holds the immutable lookup tables that drive classification,
// zoning and default filling. A rule set is loaded once and passed to the
// constructors that need it; nothing in the pipeline mutates it.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
)

//go:embed default.yaml
var defaultYAML []byte

// CategoryRule maps a raw tag to a canonical category and its sector.
type CategoryRule struct {
	Category string         `yaml:"category" json:"category"`
	Sector   records.Sector `yaml:"sector" json:"sector"`
}

// BrandRule maps a directory brand to a category.
type BrandRule struct {
	Brand    string         `yaml:"brand" json:"brand"`
	Category string         `yaml:"category" json:"category"`
	Sector   records.Sector `yaml:"sector" json:"sector"`
}

// Rule returns the category rule for the brand.
func (b BrandRule) Rule() CategoryRule {
	return CategoryRule{Category: b.Category, Sector: b.Sector}
}

// VocabularyEntry is one canonical category.
type VocabularyEntry struct {
	Category string         `yaml:"category" json:"category"`
	Sector   records.Sector `yaml:"sector" json:"sector"`
	Icon     string         `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// ZoneRule is a named bounding box in degrees, bounds inclusive.
type ZoneRule struct {
	Name   string  `yaml:"name" json:"name"`
	LatMin float64 `yaml:"lat_min" json:"lat_min"`
	LatMax float64 `yaml:"lat_max" json:"lat_max"`
	LonMin float64 `yaml:"lon_min" json:"lon_min"`
	LonMax float64 `yaml:"lon_max" json:"lon_max"`
}

// Defaults are the fallback values applied when no rule matches.
type Defaults struct {
	MapAPI  CategoryRule   `yaml:"map_api" json:"map_api"`
	Feed    CategoryRule   `yaml:"feed" json:"feed"`
	Sector  records.Sector `yaml:"sector" json:"sector"`
	Zone    string         `yaml:"zone" json:"zone"`
	Image   string         `yaml:"image" json:"image"`
	Missing string         `yaml:"missing" json:"missing"`
}

// Rules is a complete rule set.
type Rules struct {
	Vocabulary []VocabularyEntry       `yaml:"vocabulary" json:"vocabulary"`
	Shop       map[string]CategoryRule `yaml:"shop" json:"shop"`
	Amenity    map[string]CategoryRule `yaml:"amenity" json:"amenity"`
	Brands     []BrandRule             `yaml:"brands" json:"brands"`
	Zones      []ZoneRule              `yaml:"zones" json:"zones"`
	Defaults   Defaults                `yaml:"defaults" json:"defaults"`
}

// Default returns the built-in rule set for Casablanca.
func Default() (*Rules, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a YAML rule document. Unknown keys are rejected.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.UnmarshalWithOptions(data, &r, yaml.Strict()); err != nil {
		return nil, errors.WrapParse("yaml", "rules", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads a rule document from disk.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", path, err)
	}
	return r, nil
}

// Validate checks that every rule points into the vocabulary and that every
// zone box is well formed.
func (r *Rules) Validate() error {
	if len(r.Vocabulary) == 0 {
		return &errors.ValidationError{Field: "vocabulary", Message: "at least one category is required"}
	}
	seen := make(map[string]bool, len(r.Vocabulary))
	for _, v := range r.Vocabulary {
		if v.Category == "" {
			return &errors.ValidationError{Field: "vocabulary", Message: "category name cannot be empty"}
		}
		if seen[v.Category] {
			return errors.NewValidationError("vocabulary", v.Category, "duplicate category "+v.Category)
		}
		seen[v.Category] = true
		if v.Sector != records.SectorFormal && v.Sector != records.SectorInformal {
			return errors.NewValidationError("vocabulary", v.Sector, fmt.Sprintf("category %s has invalid sector %q", v.Category, v.Sector))
		}
	}

	check := func(field, key string, rule CategoryRule) error {
		if !seen[rule.Category] {
			return errors.NewValidationError(field, key, fmt.Sprintf("%s maps to unknown category %q", key, rule.Category))
		}
		if !rule.Sector.IsValid() {
			return errors.NewValidationError(field, key, fmt.Sprintf("%s has invalid sector %q", key, rule.Sector))
		}
		return nil
	}
	for tag, rule := range r.Shop {
		if err := check("shop", tag, rule); err != nil {
			return err
		}
	}
	for tag, rule := range r.Amenity {
		if err := check("amenity", tag, rule); err != nil {
			return err
		}
	}
	for _, b := range r.Brands {
		if b.Brand == "" {
			return &errors.ValidationError{Field: "brands", Message: "brand name cannot be empty"}
		}
		if err := check("brands", b.Brand, b.Rule()); err != nil {
			return err
		}
	}
	if err := check("defaults.map_api", "map_api", r.Defaults.MapAPI); err != nil {
		return err
	}
	if err := check("defaults.feed", "feed", r.Defaults.Feed); err != nil {
		return err
	}

	for i, z := range r.Zones {
		if z.Name == "" {
			return errors.NewValidationError("zones", i, fmt.Sprintf("zone %d has no name", i))
		}
		if z.LatMin > z.LatMax || z.LonMin > z.LonMax {
			return errors.NewValidationError("zones", z.Name, fmt.Sprintf("zone %s has inverted bounds", z.Name))
		}
		if z.LatMin < -90 || z.LatMax > 90 || z.LonMin < -180 || z.LonMax > 180 {
			return errors.NewValidationError("zones", z.Name, fmt.Sprintf("zone %s is outside valid coordinates", z.Name))
		}
	}

	if !r.Defaults.Sector.IsValid() {
		return errors.NewValidationError("defaults.sector", r.Defaults.Sector, "invalid default sector")
	}
	if r.Defaults.Zone == "" {
		return &errors.ValidationError{Field: "defaults.zone", Message: "default zone cannot be empty"}
	}
	if r.Defaults.Image == "" || r.Defaults.Missing == "" {
		return &errors.ValidationError{Field: "defaults", Message: "image and missing sentinels are required"}
	}
	return nil
}

// Entry returns the vocabulary entry with exactly this category name.
func (r *Rules) Entry(category string) (VocabularyEntry, bool) {
	i := slices.IndexFunc(r.Vocabulary, func(v VocabularyEntry) bool { return v.Category == category })
	if i < 0 {
		return VocabularyEntry{}, false
	}
	return r.Vocabulary[i], true
}

// Icon returns the icon for a category, or the no-image sentinel.
func (r *Rules) Icon(category string) string {
	if e, ok := r.Entry(category); ok && e.Icon != "" {
		return e.Icon
	}
	return r.Defaults.Image
}

// Categories returns the vocabulary category names in declaration order.
func (r *Rules) Categories() []string {
	out := make([]string, len(r.Vocabulary))
	for i, v := range r.Vocabulary {
		out[i] = v.Category
	}
	return out
}
