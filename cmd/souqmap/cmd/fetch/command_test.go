package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap"
	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/tabular"
)

const (
	shopResponse = `{"elements":[
  {"type":"node","id":1,"lat":33.595,"lon":-7.62,"tags":{"name":"Boulangerie Atlas","shop":"bakery"}},
  {"type":"way","id":2,"center":{"lat":33.58,"lon":-7.64},"tags":{"shop":"kiosk"}}
]}`
	amenityResponse = `{"elements":[
  {"type":"node","id":10,"lat":33.57,"lon":-7.58,"tags":{"name":"Café X","amenity":"cafe"}}
]}`
)

// overpassApp returns a mock whose client talks to srv and writes into dir.
func overpassApp(dir string, srv *httptest.Server) *application.Mock {
	return &application.Mock{
		DirFunc: func() string { return dir },
		ClientFunc: func(opts ...souqmap.Option) (souqmap.Client, error) {
			base := []souqmap.Option{
				souqmap.WithDir(dir),
				souqmap.WithHTTPClient(srv.Client()),
				souqmap.WithSimulation(false),
				souqmap.WithLegacyFiles(),
			}
			return souqmap.New(append(base, opts...)...)
		},
	}
}

func TestFetchOSMCommand(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query().Get("data")
		switch {
		case strings.Contains(q, `"shop"`):
			_, _ = w.Write([]byte(shopResponse))
		case strings.Contains(q, `"amenity"`):
			_, _ = w.Write([]byte(amenityResponse))
		default:
			http.Error(w, "bad query", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	cmd := NewCommand(overpassApp(dir, srv))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"osm", "--endpoint", srv.URL})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, int32(2), calls.Load())
	path := filepath.Join(dir, constants.MapAPIFile)
	assert.Contains(t, out.String(), "Saved 3 points of sale to "+path)

	table, err := tabular.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "Boulangerie Atlas", table.Rows[0]["name"])
	assert.Equal(t, "Café X", table.Rows[2]["name"])
}

func TestFetchOSMCommandUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cmd := NewCommand(overpassApp(dir, srv))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"osm", "--endpoint", srv.URL})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))

	_, statErr := os.Stat(filepath.Join(dir, constants.MapAPIFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchUnknownSource(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"atp"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atp")
}
