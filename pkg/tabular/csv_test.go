package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/errors"
)

func TestReadCSVStripsBOM(t *testing.T) {
	input := "\ufeffNom,Latitude,Longitude\nBIM Maarif,33.58,-7.64\n"
	table, err := ReadCSV(strings.NewReader(input), "legacy.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Latitude", "Longitude"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "BIM Maarif", table.Rows[0]["Nom"])
	assert.True(t, table.Has("nom"))
	assert.False(t, table.Has("Zone"))
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"), "ragged.csv")
	assert.Error(t, err)
}

func TestRowGet(t *testing.T) {
	row := Row{"name": "  ", "Nom": "Kiosque Anfa", "lat": "33.6"}
	assert.Equal(t, "Kiosque Anfa", row.Get("name", "Nom"))
	assert.Equal(t, "33.6", row.Get("LAT"))
	assert.Equal(t, "", row.Get("lon"))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Name", "Address"}, [][]string{{"Épicerie sans nom", "Rue 1, Casablanca"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\xef\xbb\xbf")))

	table, err := ReadCSV(&buf, "out.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Address"}, table.Columns)
	assert.Equal(t, "Rue 1, Casablanca", table.Rows[0]["Address"])
}

func TestTableAppend(t *testing.T) {
	table := New("osm", "name")
	table.Append(Row{"name": "A", "shop": "bakery"})
	table.Append(Row{"name": "B", "amenity": "cafe"})
	assert.Equal(t, []string{"name", "shop", "amenity"}, table.Columns)
	assert.Equal(t, [][]string{{"A", "bakery", ""}, {"B", "", "cafe"}}, table.Records())
}

func TestWriteFileAndLatest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "points_osm_1.csv")
	newer := filepath.Join(dir, "points_osm_2.csv")

	table := New("osm", "name")
	table.Append(Row{"name": "A"})
	require.NoError(t, WriteFile(older, table))
	require.NoError(t, WriteFile(newer, table))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	got, err := Latest(filepath.Join(dir, "points_osm_*.csv"))
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = Latest(filepath.Join(dir, "missing_*.csv"))
	assert.True(t, errors.IsNotFound(err))

	read, err := ReadFile(newer)
	require.NoError(t, err)
	assert.Equal(t, "A", read.Rows[0]["name"])
}
