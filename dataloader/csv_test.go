package dataloader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShard(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestNaiveCSVRead(t *testing.T) {
	dir := t.TempDir()
	path := writeShard(t, dir, "output100.csv", "\"Points:0\",\"Points:1\",pressure\n1,2,3\n4, 5,6e-1\n")

	tbl, err := (&NaiveCSV{}).ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Points:0", "Points:1", "pressure"}, tbl.Columns)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 0.6}}, tbl.Rows)
}

func TestNaiveCSVDelimiter(t *testing.T) {
	tbl, err := (&NaiveCSV{Delimiter: ';'}).read(strings.NewReader("a;b\n1;2\n"), "mem")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, [][]float64{{1, 2}}, tbl.Rows)
}

func TestNaiveCSVEmpty(t *testing.T) {
	for _, test := range []struct {
		name     string
		contents string
	}{
		{"zero length", ""},
		{"header only", "a,b,c\n"},
		{"header without newline", "a,b,c"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&NaiveCSV{}).read(strings.NewReader(test.contents), "shard.csv")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmpty))
			assert.Contains(t, err.Error(), "shard.csv")
		})
	}
}

func TestNaiveCSVCorrupt(t *testing.T) {
	for _, test := range []struct {
		name     string
		contents string
		line     int
	}{
		{"wrong field count", "a,b\n1,2\n3\n", 3},
		{"not a number", "a,b\n1,2\n3,x\n", 3},
		{"unterminated quote", "a,b\n1,\"2\n", 2},
		{"duplicate header", "a,a\n1,2\n", 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&NaiveCSV{}).read(strings.NewReader(test.contents), "bad.csv")
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, "bad.csv", perr.Path)
			assert.Equal(t, test.line, perr.Line)
			assert.False(t, errors.Is(err, ErrEmpty))
		})
	}
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := (&NaiveCSV{}).ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl := &Table{
		Columns: []string{"x", "y", "p"},
		Rows:    [][]float64{{0, 0.1, -1e-17}, {1, 2.5, 3}},
	}
	path := filepath.Join(dir, "sub", "avg_slice.csv")
	require.NoError(t, WriteFile(path, tbl))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y,p\n0,0.1,-1e-17\n1,2.5,3\n", string(b))

	got, err := (&NaiveCSV{}).ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, tbl, got)
}

func TestWriteCSVBadRow(t *testing.T) {
	tbl := &Table{Columns: []string{"x", "y"}, Rows: [][]float64{{1}}}
	var sb strings.Builder
	assert.Error(t, WriteCSV(&sb, tbl))
}
