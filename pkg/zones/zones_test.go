package zones

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
)

func newAssigner(t *testing.T) *Assigner {
	t.Helper()
	r, err := rules.Default()
	require.NoError(t, err)
	a, err := FromRules(r)
	require.NoError(t, err)
	return a
}

func TestAssign(t *testing.T) {
	a := newAssigner(t)
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"centre", 33.595, -7.620, "Centre-Ville"},
		{"inclusive corner", 33.593, -7.630, "Centre-Ville"},
		{"maarif", 33.58, -7.64, "Maarif"},
		{"mohammedia", 33.69, -7.37, "Mohammedia"},
		{"outside every box", 33.57, -7.58, "Casablanca"},
		{"zero", 0, 0, "Casablanca"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Assign(records.Float(tt.lat), records.Float(tt.lon)))
		})
	}
}

func TestAssignOverlapUsesDeclarationOrder(t *testing.T) {
	// (33.59, -7.645) lies in both Maarif and Anfa; Maarif is declared first.
	a := newAssigner(t)
	assert.Equal(t, "Maarif", a.Assign(records.Float(33.59), records.Float(-7.645)))

	swapped, err := New([]rules.ZoneRule{
		{Name: "Anfa", LatMin: 33.590, LatMax: 33.610, LonMin: -7.670, LonMax: -7.640},
		{Name: "Maarif", LatMin: 33.575, LatMax: 33.590, LonMin: -7.650, LonMax: -7.630},
	}, "Casablanca")
	require.NoError(t, err)
	assert.Equal(t, "Anfa", swapped.Assign(records.Float(33.59), records.Float(-7.645)))
}

func TestAssignMissingCoordinates(t *testing.T) {
	a := newAssigner(t)
	assert.Equal(t, "Casablanca", a.Assign(nil, records.Float(-7.62)))
	assert.Equal(t, "Casablanca", a.Assign(records.Float(33.595), nil))
	assert.Equal(t, "Casablanca", a.Assign(records.Float(math.NaN()), records.Float(-7.62)))
}

func TestAssignCoverage(t *testing.T) {
	a := newAssigner(t)
	allowed := []string{a.Default()}
	for _, z := range a.Zones() {
		allowed = append(allowed, z.Name)
	}

	for lat := 33.30; lat <= 33.75; lat += 0.005 {
		for lon := -7.95; lon <= -7.30; lon += 0.005 {
			got := a.Assign(records.Float(lat), records.Float(lon))
			require.NotEmpty(t, got)
			require.True(t, slices.Contains(allowed, got), "unexpected zone %q", got)
		}
	}
}

func TestNewRequiresDefault(t *testing.T) {
	_, err := New(nil, "")
	assert.Error(t, err)

	empty, err := New(nil, "Casablanca")
	require.NoError(t, err)
	assert.Equal(t, "Casablanca", empty.Assign(records.Float(33.6), records.Float(-7.6)))
	assert.Empty(t, empty.Zones())
}

func TestZonesInDeclarationOrder(t *testing.T) {
	zs := newAssigner(t).Zones()
	require.Len(t, zs, 13)
	assert.Equal(t, "Centre-Ville", zs[0].Name)
	assert.Equal(t, "Ain Harrouda", zs[12].Name)
}
