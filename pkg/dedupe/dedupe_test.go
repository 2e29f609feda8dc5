package dedupe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/records"
)

func rec(name string, lat, lon float64, src records.SourceTag, category string) records.Record {
	return records.Record{
		Name:      name,
		Category:  category,
		Latitude:  records.Float(lat),
		Longitude: records.Float(lon),
		SourceTag: src,
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []records.Record{
		rec("Café X", 33.57, -7.58, records.SourceMapAPI, "Café"),
		rec("Café X", 33.57, -7.58, records.SourceSimulatedFeed, "Restaurant"),
		rec("Café X", 33.57, -7.581, records.SourceLegacy, "Café"),
	}

	kept, report := Dedupe(in)
	require.Len(t, kept, 2)
	assert.Equal(t, records.SourceMapAPI, kept[0].SourceTag)
	assert.Equal(t, "Café", kept[0].Category)
	assert.Equal(t, records.SourceLegacy, kept[1].SourceTag)

	assert.Equal(t, 1, report.DuplicatesRemoved)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, records.SourceSimulatedFeed, report.Duplicates[0].Dropped)
	assert.Equal(t, records.SourceMapAPI, report.Duplicates[0].KeptBy)
	assert.Equal(t, 3, report.Input)
	assert.Equal(t, 2, report.Kept)
}

func TestDedupeOrderDeterminism(t *testing.T) {
	a := rec("BIM Maarif", 33.58, -7.64, records.SourceSimulatedFeed, "Supérette / Mini-market")
	a.Address = "first"
	b := a
	b.Address = "second"

	kept, _ := Dedupe([]records.Record{a, b})
	require.Len(t, kept, 1)
	assert.Equal(t, "first", kept[0].Address)

	kept, _ = Dedupe([]records.Record{b, a})
	require.Len(t, kept, 1)
	assert.Equal(t, "second", kept[0].Address)
}

func TestDedupeIsIdempotent(t *testing.T) {
	in := []records.Record{
		rec("A", 33.6, -7.6, records.SourceMapAPI, "Kiosque"),
		rec("A", 33.6, -7.6, records.SourceLegacy, "Kiosque"),
		rec("B", 33.6, -7.6, records.SourceLegacy, "Kiosque"),
		rec("C", 0, -7.6, records.SourceLegacy, "Kiosque"),
		{Name: "D", Latitude: records.Float(33.6), SourceTag: records.SourceLegacy},
	}

	once, first := Dedupe(in)
	twice, second := Dedupe(once)
	assert.Equal(t, once, twice)
	assert.Zero(t, second.DuplicatesRemoved)
	assert.Zero(t, second.GeolocationExcluded())
	assert.Equal(t, 1, first.DuplicatesRemoved)
	assert.Equal(t, 2, first.GeolocationExcluded())
}

func TestDedupeKeyCompleteness(t *testing.T) {
	names := []string{"A", "B", "A"}
	coords := []float64{33.5, 33.6, 33.5}
	var in []records.Record
	for i := range 30 {
		in = append(in, rec(names[i%3], coords[i%3], -7.6+float64(i%2)*0.1, records.SourceTags()[i%3], "Épicerie"))
	}

	kept, report := Dedupe(in)
	seen := make(map[records.Key]int)
	for _, r := range kept {
		seen[r.Key()]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, key.String())
	}
	assert.Equal(t, len(in), len(kept)+report.DuplicatesRemoved)
}

func TestDedupeGeolocationFilter(t *testing.T) {
	in := []records.Record{
		rec("Zero", 0, 0, records.SourceLegacy, "Épicerie"),
		rec("Zero lat", 0, -7.6, records.SourceLegacy, "Épicerie"),
		{Name: "No lat", Longitude: records.Float(-7.6), SourceTag: records.SourceLegacy},
		rec("NaN", math.NaN(), -7.6, records.SourceLegacy, "Épicerie"),
		rec("Fine", 33.6, -7.6, records.SourceLegacy, "Épicerie"),
	}

	kept, report := Dedupe(in)
	require.Len(t, kept, 1)
	assert.Equal(t, "Fine", kept[0].Name)
	assert.Equal(t, 2, report.MissingGeolocation)
	assert.Equal(t, 2, report.ZeroCoordinate)

	kept, report = Dedupe(in, WithZeroFilter(false))
	assert.Len(t, kept, 3)
	assert.Zero(t, report.ZeroCoordinate)
}
