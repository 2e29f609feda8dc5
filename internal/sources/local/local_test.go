package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/sources"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetchLoadsEveryFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "\ufeffNom,Latitude,Longitude\nKiosque Anfa,33.6,-7.66\n")
	writeFile(t, dir, "osm_1.csv", "name,shop,lat,lon\nX,bakery,33.59,-7.62\n")

	src := New(WithPatterns(a, filepath.Join(dir, "osm_*.csv")))
	assert.Equal(t, sources.LegacyID, src.ID())
	require.NoError(t, src.Fetch(context.Background()))

	tables := src.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "Kiosque Anfa", tables[0].Rows[0]["Nom"])
	assert.Equal(t, "bakery", tables[1].Rows[0]["shop"])
	assert.NoError(t, src.Cleanup())
}

func TestFetchKeepsLoadedTablesOnPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "Nom,Latitude,Longitude\nA,33.6,-7.6\n")
	ragged := writeFile(t, dir, "ragged.csv", "Nom,Latitude\nA,33.6,-7.6\n")

	src := New(WithID(sources.MapAPIID), WithPatterns(good, ragged, filepath.Join(dir, "missing.csv")))
	err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Len(t, src.Tables(), 1)
	assert.Equal(t, sources.MapAPIID, src.ID())
}

func TestFetchNothingConfigured(t *testing.T) {
	err := New().Fetch(context.Background())
	assert.True(t, errors.IsSourceUnavailable(err))
}
