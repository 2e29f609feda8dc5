package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/pkg/errors"
)

func TestGetSendsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New("overpass", WithUserAgent("souqmap-test"))
	resp, err := c.Get(context.Background(), srv.URL+"/api/interpreter", url.Values{"data": {"[out:json];"}})
	require.NoError(t, err)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.DecodeResponse(resp, &body))
	assert.True(t, body.OK)

	require.NotNil(t, got)
	assert.Equal(t, "souqmap-test", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "[out:json];", got.URL.Query().Get("data"))
	assert.Equal(t, "overpass", c.Service())
}

func TestDecodeResponseStatus(t *testing.T) {
	tests := []struct {
		status      int
		rateLimited bool
		unavailable bool
	}{
		{http.StatusTooManyRequests, true, false},
		{http.StatusGatewayTimeout, false, true},
		{http.StatusBadRequest, false, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "busy", tt.status)
			}))
			defer srv.Close()

			c := New("overpass")
			resp, err := c.Get(context.Background(), srv.URL, nil)
			require.NoError(t, err)

			err = c.DecodeResponse(resp, &struct{}{})
			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "overpass", apiErr.Service)
			assert.Equal(t, tt.rateLimited, errors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, errors.IsServiceUnavailable(err))
		})
	}
}

func TestDecodeResponseBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{`))
	}))
	defer srv.Close()

	c := New("overpass")
	resp, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	var perr *errors.ParseError
	assert.ErrorAs(t, c.DecodeResponse(resp, &struct{}{}), &perr)
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New("overpass").Get(ctx, srv.URL, nil)
	assert.True(t, errors.IsTimeout(err))
}
