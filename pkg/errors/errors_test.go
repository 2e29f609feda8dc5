package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/souqmap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "zone", ID: "Maarif"}
		assert.Equal(t, "zone with ID Maarif not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("source", "osm")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "latitude", Message: "not a number"}
		assert.Equal(t, "validation failed for field latitude: not a number", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty rule set"}
		assert.Equal(t, "validation failed: empty rule set", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		err := pkgerrors.NewAPIError("overpass", 429, "too many requests")
		assert.Contains(t, err.Error(), "overpass")
		assert.Contains(t, err.Error(), "429")
		assert.True(t, pkgerrors.IsRateLimited(err))
		assert.False(t, pkgerrors.IsServiceUnavailable(err))
	})

	t.Run("server error", func(t *testing.T) {
		err := pkgerrors.NewAPIError("overpass", 504, "gateway timeout")
		assert.True(t, pkgerrors.IsServiceUnavailable(err))
	})

	t.Run("without status", func(t *testing.T) {
		base := errors.New("connection refused")
		err := pkgerrors.WrapAPI("overpass", 0, base)
		assert.Equal(t, "API error from overpass: connection refused", err.Error())
		assert.ErrorIs(t, err, base)
	})
}

func TestSourceUnavailableError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := pkgerrors.NewSourceUnavailableError("legacy", "points.csv", errors.New("no such file"))
		assert.Equal(t, "source legacy unavailable (points.csv): no such file", err.Error())
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("nil cause", func(t *testing.T) {
		err := pkgerrors.NewSourceUnavailableError("osm", "", nil)
		assert.Equal(t, "source osm unavailable: unknown error", err.Error())
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", pkgerrors.WrapSource("atp", "feed.csv", errors.New("bad header")))
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &pkgerrors.PersistenceError{Path: "out.csv", Fallback: "out_1700000000.csv", Err: cause}

	assert.Contains(t, err.Error(), "out.csv")
	assert.Contains(t, err.Error(), "out_1700000000.csv")
	assert.True(t, pkgerrors.IsPersistence(err))
	assert.ErrorIs(t, err, cause)

	noFallback := &pkgerrors.PersistenceError{Path: "out.csv", Err: cause}
	assert.Equal(t, "failed to persist table to out.csv: permission denied", noFallback.Error())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("yaml: line 3")
	err := pkgerrors.NewConfigError("rules", "invalid zone box", cause)
	assert.Equal(t, "configuration error in rules: invalid zone box", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &pkgerrors.ConfigError{Message: "missing"}
	assert.Equal(t, "configuration error: missing", bare.Error())
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "with position",
			err:  &pkgerrors.ParseError{Format: "csv", File: "osm.csv", Line: 4, Column: 2, Message: "wrong number of fields"},
			want: "parse error in csv at osm.csv:4:2: wrong number of fields",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "yaml", File: "rules.yaml", Message: "bad indent"},
			want: "parse error in yaml file rules.yaml: bad indent",
		},
		{
			name: "no file",
			err:  &pkgerrors.ParseError{Format: "json", Message: "unexpected EOF"},
			want: "json parse error: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := pkgerrors.NewIOError("write", "/tmp/out.csv", cause)
	assert.Equal(t, "IO error during write of /tmp/out.csv: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("fetch", "60s", "overpass did not answer")
	assert.Contains(t, err.Error(), "timed out after 60s")
	assert.True(t, pkgerrors.IsTimeout(err))
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapValidation("f", nil))
	assert.NoError(t, pkgerrors.WrapIO("read", "p", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "p", nil))
	assert.NoError(t, pkgerrors.WrapAPI("s", 500, nil))
	assert.NoError(t, pkgerrors.WrapSource("s", "p", nil))

	err := pkgerrors.WrapParse("csv", "legacy.csv", errors.New("bare quote"))
	var parseErr *pkgerrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "legacy.csv", parseErr.File)

	err = pkgerrors.WrapValidation("sector", errors.New("unknown value"))
	assert.True(t, pkgerrors.IsValidationError(err))
}
