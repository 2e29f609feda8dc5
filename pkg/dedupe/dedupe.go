// Package dedupe merges the concatenated records of every source into one
// table. It drops records that cannot be placed on a map and keeps the first
// record for each identity key.
//
// Identity is exact: two records are the same point of sale only when name,
// latitude and longitude are all equal. Survival is decided by input order,
// so callers concatenate sources in their fixed order before deduplicating.
package dedupe

import (
	"github.com/agentstation/souqmap/pkg/records"
)

// Duplicate describes a discarded record and the record that kept its key.
type Duplicate struct {
	Key     records.Key       `json:"key" yaml:"key"`
	Dropped records.SourceTag `json:"dropped" yaml:"dropped"`
	KeptBy  records.SourceTag `json:"kept_by" yaml:"kept_by"`
}

// Report summarizes one deduplication pass.
type Report struct {
	Input              int         `json:"input" yaml:"input"`
	Kept               int         `json:"kept" yaml:"kept"`
	MissingGeolocation int         `json:"missing_geolocation" yaml:"missing_geolocation"`
	ZeroCoordinate     int         `json:"zero_coordinate" yaml:"zero_coordinate"`
	DuplicatesRemoved  int         `json:"duplicates_removed" yaml:"duplicates_removed"`
	Duplicates         []Duplicate `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// GeolocationExcluded returns the number of records dropped for lack of
// usable coordinates.
func (r Report) GeolocationExcluded() int {
	return r.MissingGeolocation + r.ZeroCoordinate
}

// Option configures a deduplication pass.
type Option func(*options)

type options struct {
	zeroFilter bool
}

func defaultOptions() *options {
	return &options{zeroFilter: true}
}

// WithZeroFilter controls whether records with a latitude or longitude of
// exactly zero are treated as not geolocated. Enabled by default.
func WithZeroFilter(enabled bool) Option {
	return func(o *options) {
		o.zeroFilter = enabled
	}
}

// Dedupe filters and deduplicates records. The input slice is not modified.
func Dedupe(recs []records.Record, opts ...Option) ([]records.Record, Report) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	report := Report{Input: len(recs)}
	kept := make([]records.Record, 0, len(recs))
	owners := make(map[records.Key]records.SourceTag, len(recs))

	for _, rec := range recs {
		if !rec.Geolocated() {
			report.MissingGeolocation++
			continue
		}
		if o.zeroFilter && rec.HasZeroCoordinate() {
			report.ZeroCoordinate++
			continue
		}
		key := rec.Key()
		if owner, seen := owners[key]; seen {
			report.DuplicatesRemoved++
			report.Duplicates = append(report.Duplicates, Duplicate{Key: key, Dropped: rec.SourceTag, KeptBy: owner})
			continue
		}
		owners[key] = rec.SourceTag
		kept = append(kept, rec)
	}

	report.Kept = len(kept)
	return kept, report
}
