package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/zones"
)

func TestSimulate(t *testing.T) {
	r, err := rules.Default()
	require.NoError(t, err)
	a, err := zones.FromRules(r)
	require.NoError(t, err)

	table := Simulate(r)
	assert.Equal(t, Columns, table.Columns)
	assert.Equal(t, 21+len(centreBrands), table.Len())

	// Every neighbourhood branch lands in the zone it is named after.
	for _, row := range table.Rows[:21] {
		lat, err := records.ParseCoordinate(row["Latitude"])
		require.NoError(t, err)
		lon, err := records.ParseCoordinate(row["Longitude"])
		require.NoError(t, err)
		zone := a.Assign(lat, lon)
		assert.Equal(t, "Avenue "+zone+", Casablanca", row["Adresse"], row["Nom"])
	}

	first := table.Rows[0]
	assert.Equal(t, "Carrefour Maarif", first["Nom"])
	assert.Equal(t, "Supermarché", first["Catégorie"])
	assert.Equal(t, "Formel", first["Statut"])

	paul := table.Rows[21]
	assert.Equal(t, "Paul Casablanca Centre", paul["Nom"])
	assert.Equal(t, "Boulangerie", paul["Catégorie"])
	assert.Equal(t, "33.5531", paul["Latitude"])
	assert.Equal(t, "-7.6098", paul["Longitude"])

	assert.Equal(t, Simulate(r).Records(), table.Records())
}

func TestFetchSimulatesWhenNoExport(t *testing.T) {
	dir := t.TempDir()
	src := New(WithPattern(filepath.Join(dir, "atp*.csv")))
	assert.Equal(t, sources.FeedID, src.ID())

	require.NoError(t, src.Fetch(context.Background(), sources.WithOutputDir(dir)))
	require.Len(t, src.Tables(), 1)
	assert.Equal(t, 27, src.Tables()[0].Len())
	assert.FileExists(t, filepath.Join(dir, constants.FeedFile))
	assert.NoError(t, src.Cleanup())
}

func TestFetchReadsLatestExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atp_1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nom,brand,Latitude,Longitude\nBIM Maarif,BIM,33.58,-7.64\n"), 0o644))

	src := New(WithPattern(filepath.Join(dir, "atp*.csv")))
	require.NoError(t, src.Fetch(context.Background()))
	require.Len(t, src.Tables(), 1)
	assert.Equal(t, 1, src.Tables()[0].Len())
	assert.Equal(t, "BIM", src.Tables()[0].Rows[0]["brand"])
}

func TestFetchWithoutSimulation(t *testing.T) {
	src := New(WithPattern(filepath.Join(t.TempDir(), "atp*.csv")), WithSimulation(false))
	err := src.Fetch(context.Background())
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Nil(t, src.Tables())
}
