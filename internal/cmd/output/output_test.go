package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/souqmap/internal/cmd/table"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	data := table.KeyValueToTableData([2]string{"Zone", "Maarif"})
	raw := map[string]string{"zone": "Maarif"}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, "table", data, raw))
		assert.Contains(t, strings.ToLower(buf.String()), "property")
		assert.Contains(t, buf.String(), "Maarif")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, "json", data, raw))
		assert.JSONEq(t, `{"zone":"Maarif"}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, "yaml", data, raw))
		assert.Equal(t, "zone: Maarif\n", buf.String())
	})
}

func TestSectionSkipsEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Section(&buf, "By zone", table.Data{Headers: []string{"Zone"}}))
	assert.Empty(t, buf.String())

	require.NoError(t, Section(&buf, "By zone", table.CountsToTableData("Zone", map[string]int{"Anfa": 3, "Maarif": 1}, 4)))
	out := buf.String()
	assert.Contains(t, out, "By zone")
	assert.Contains(t, out, "75.0%")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Anfa")), bytes.Index(buf.Bytes(), []byte("Maarif")))
}

func TestTableFormatterRequiresTableData(t *testing.T) {
	f := NewFormatter(FormatTable)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, table.KeyValueToTableData([2]string{"Zone", "Anfa"})))
	assert.Contains(t, buf.String(), "Anfa")

	data := table.KeyValueToTableData([2]string{"Zone", "Maarif"})
	buf.Reset()
	require.NoError(t, f.Format(&buf, &data))
	assert.Contains(t, buf.String(), "Maarif")

	for _, v := range []any{
		struct{ Zone string }{"Anfa"},
		[]string{"Anfa"},
		(*table.Data)(nil),
		nil,
	} {
		buf.Reset()
		assert.Error(t, f.Format(&buf, v), "%T", v)
		assert.Empty(t, buf.String())
	}
}

func TestPrintRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, "xml", table.KeyValueToTableData([2]string{"Zone", "Anfa"}), map[string]string{"zone": "Anfa"})
	assert.Error(t, err)
	assert.Empty(t, buf.String())

	f, err := Resolve("WIDE")
	require.NoError(t, err)
	assert.True(t, IsTable(f))
}
