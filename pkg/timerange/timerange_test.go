package timerange

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()
	require.NotEmpty(t, table)

	r, ok := table.Find("now() - 1h")
	require.True(t, ok)
	require.Equal(t, "1m", r.DefaultGroupBy)
	require.Equal(t, int64(3600), r.Seconds)
}

func TestDefaultGroupBy(t *testing.T) {
	table := Default()

	tests := []struct {
		name  string
		lower string
		want  string
	}{
		{name: "five minutes", lower: "now() - 5m", want: "10s"},
		{name: "seven days", lower: "now() - 7d", want: "1h"},
		{name: "unknown range", lower: "now() - 3h", want: FallbackGroupBy},
		{name: "absolute timestamp", lower: "2017-01-01T00:00:00Z", want: FallbackGroupBy},
		{name: "empty", lower: "", want: FallbackGroupBy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, table.DefaultGroupBy(tt.lower))
		})
	}
}

func TestNilTableFallsBack(t *testing.T) {
	var table Table
	require.Equal(t, "5m", table.DefaultGroupBy("now() - 1h"))
}

func TestParseRejectsIncompleteRanges(t *testing.T) {
	_, err := Parse([]byte("- defaultGroupBy: 1m\n"))
	require.Error(t, err)

	_, err = Parse([]byte("- lower: now() - 1h\n"))
	require.Error(t, err)

	_, err = Parse([]byte("not: [valid"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranges.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- lower: now() - 90m\n  defaultGroupBy: 2m\n  seconds: 5400\n"), 0o600))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, table, 1)
	require.Equal(t, "2m", table.DefaultGroupBy("now() - 90m"))

	table, err = LoadFile("")
	require.NoError(t, err)
	require.Equal(t, Default(), table)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
