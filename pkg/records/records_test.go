package records

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSector(t *testing.T) {
	tests := []struct {
		in   string
		want Sector
		ok   bool
	}{
		{"Formel", SectorFormal, true},
		{" formal ", SectorFormal, true},
		{"INFORMEL", SectorInformal, true},
		{"Non classifié", SectorUnclassified, true},
		{"unclassified", SectorUnclassified, true},
		{"semi-formel", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSector(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceTagRank(t *testing.T) {
	assert.Equal(t, 0, SourceMapAPI.Rank())
	assert.Equal(t, 1, SourceSimulatedFeed.Rank())
	assert.Equal(t, 2, SourceLegacy.Rank())
	assert.Equal(t, -1, SourceTag("Google").Rank())
	assert.False(t, SourceTag("Google").IsValid())
}

func TestParseCoordinate(t *testing.T) {
	v, err := ParseCoordinate("33.5731")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 33.5731, *v)

	v, err = ParseCoordinate("-7,5898")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, -7.5898, *v)

	for _, empty := range []string{"", "  ", "NaN", "null", "None", "N/A"} {
		v, err = ParseCoordinate(empty)
		assert.NoError(t, err, empty)
		assert.Nil(t, v, empty)
	}

	_, err = ParseCoordinate("north")
	assert.Error(t, err)
}

func TestRecordGeolocation(t *testing.T) {
	r := Record{Latitude: Float(33.57), Longitude: Float(-7.58)}
	assert.True(t, r.Geolocated())
	assert.False(t, r.HasZeroCoordinate())

	r.Longitude = nil
	assert.False(t, r.Geolocated())

	r.Longitude = Float(math.NaN())
	assert.False(t, r.Geolocated())

	zero := Record{Latitude: Float(0), Longitude: Float(-7.58)}
	assert.True(t, zero.Geolocated())
	assert.True(t, zero.HasZeroCoordinate())
}

func TestRecordKeyAndValues(t *testing.T) {
	r := Record{
		Zone:      "Maarif",
		Name:      "Café X",
		Category:  "Café",
		Sector:    SectorFormal,
		Address:   "N/A",
		Latitude:  Float(33.57),
		Longitude: Float(-7.58),
		ImageRef:  "icons/cafe.png",
		SourceTag: SourceMapAPI,
	}
	assert.Equal(t, Key{Name: "Café X", Latitude: 33.57, Longitude: -7.58}, r.Key())
	assert.Equal(t, "Café X@33.57,-7.58", r.Key().String())
	assert.Equal(t,
		[]string{"Maarif", "Café X", "Café", "Formel", "N/A", "33.57", "-7.58", "icons/cafe.png", "OSM"},
		r.Values())
	assert.Len(t, r.Values(), len(Headers()))
}

func TestSchemaAliases(t *testing.T) {
	name, ok := Lookup(ColName)
	require.True(t, ok)
	assert.True(t, name.Matches("Nom"))
	assert.True(t, name.Matches("name"))
	assert.False(t, name.Matches("brand"))

	sector, ok := Lookup(ColSector)
	require.True(t, ok)
	assert.True(t, sector.Matches("Statut"))
	assert.Equal(t, FieldEnum, sector.Type)

	_, ok = Lookup("Phone")
	assert.False(t, ok)
}

func TestPlaceholderName(t *testing.T) {
	assert.Equal(t, "Kiosque sans nom", PlaceholderName("Kiosque"))
}
