package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "\xEF\xBB\xBFDate, Mean ,FlagCode\n" +
		"2024-01-01,0.32,8\n" +
		"\n" +
		"2024-01-17, 0.28 ,9\n" +
		"   \n" +
		"2024-02-02,n/a,\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Mean", "FlagCode"}, table.Header)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, 2, first.Line)
	date, ok := first.Get("Date")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", date)
	mean, ok := first.Float("Mean")
	assert.True(t, ok)
	assert.InDelta(t, 0.32, mean, 1e-12)
	flag, ok := first.Int("FlagCode")
	assert.True(t, ok)
	assert.Equal(t, 8, flag)

	mean, ok = table.Rows[1].Float("Mean")
	assert.True(t, ok, "cells are trimmed before coercion")
	assert.InDelta(t, 0.28, mean, 1e-12)
	assert.Equal(t, 4, table.Rows[1].Line)

	_, ok = table.Rows[2].Float("Mean")
	assert.False(t, ok, "non-numeric cell stays a string")
	raw, _ := table.Rows[2].Get("Mean")
	assert.Equal(t, "n/a", raw)
	_, ok = table.Rows[2].Int("FlagCode")
	assert.False(t, ok)
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("Date,Mean\n"))
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"only blank lines", "\n\n  \n"},
		{"ragged row", "Date,Mean\n2024-01-01,0.3,extra\n"},
		{"short row", "Date,Mean,FlagCode\n2024-01-01,0.3\n"},
		{"unterminated quote", "Date,Mean\n\"2024-01-01,0.3\n"},
		{"bare quote", "Date,Mean\n2024\"01,0.3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestRow_Float(t *testing.T) {
	tests := []struct {
		cell     string
		expected float64
		ok       bool
	}{
		{"0.5", 0.5, true},
		{"-12", -12, true},
		{"3e-2", 0.03, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := NewRow(1, map[string]string{"Mean": tt.cell}).Float("Mean")
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}

	_, ok := NewRow(1, nil).Float("Mean")
	assert.False(t, ok, "missing column")
}

func TestRow_Int(t *testing.T) {
	tests := []struct {
		cell     string
		expected int
		ok       bool
	}{
		{"8", 8, true},
		{"161", 161, true},
		{"8.0", 8, true},
		{"8.5", 0, false},
		{"x", 0, false},
		{"1e30", 0, false},
		{"-1e30", 0, false},
		{"9.3e18", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := NewRow(1, map[string]string{"FlagCode": tt.cell}).Int("FlagCode")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func writeFile(t *testing.T, root string, d domain.Division, name, content string) {
	t.Helper()
	dir := filepath.Join(root, d.DirName())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReader_Read(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, domain.Rajshahi, "temperature-Statistics.csv", "Date,Mean\n2024-01-01,301.2\n")

	r := NewReader(root)
	assert.Equal(t, filepath.Join(root, "Rajshahi"), r.DivisionDir(domain.Rajshahi))

	table, err := r.Read(context.Background(), domain.Rajshahi, "temperature-Statistics.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	mean, ok := table.Rows[0].Float("Mean")
	assert.True(t, ok)
	assert.InDelta(t, 301.2, mean, 1e-12)
}

func TestReader_FileNotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, domain.Rajshahi, "temperature-Statistics.csv", "Date,Mean\n")
	r := NewReader(root)

	t.Run("missing file", func(t *testing.T) {
		_, err := r.Read(context.Background(), domain.Rajshahi, "vegetation-Statistics.csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
		assert.Contains(t, err.Error(), "vegetation-Statistics.csv")
	})

	t.Run("missing division directory", func(t *testing.T) {
		_, err := r.Read(context.Background(), domain.Sylhet, "temperature-Statistics.csv")
		require.Error(t, err)
		assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
	})

	t.Run("division path is a file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, domain.Khulna.DirName()), []byte("x"), 0o644))

		_, err := r.Read(context.Background(), domain.Khulna, "temperature-Statistics.csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
	})

	t.Run("file path is a directory", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(r.DivisionDir(domain.Rajshahi), "vegetation-Statistics.csv"), 0o755))

		_, err := r.Read(context.Background(), domain.Rajshahi, "vegetation-Statistics.csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.Equal(t, domain.KindFileNotFound, domain.KindOf(err))
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestReader_ParseError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, domain.Khulna, "vegetation-Statistics.csv", "Date,Mean\n2024-01-01,0.4,oops\n")

	_, err := NewReader(root).Read(context.Background(), domain.Khulna, "vegetation-Statistics.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, domain.KindParseError, domain.KindOf(err))
}

func TestReader_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, domain.Rajshahi, "temperature-Statistics.csv", "Date,Mean\n2024-01-01,301.2\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(root).Read(ctx, domain.Rajshahi, "temperature-Statistics.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_CheckReadiness(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		err := NewReader(filepath.Join(t.TempDir(), "nope")).CheckReadiness(context.Background())
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing division", func(t *testing.T) {
		root := t.TempDir()
		for _, d := range domain.SupportedDivisions() {
			if d == domain.Rangpur {
				continue
			}
			require.NoError(t, os.MkdirAll(filepath.Join(root, d.DirName()), 0o755))
		}
		err := NewReader(root).CheckReadiness(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "division rangpur")
	})

	t.Run("ready", func(t *testing.T) {
		root := t.TempDir()
		for _, d := range domain.SupportedDivisions() {
			require.NoError(t, os.MkdirAll(filepath.Join(root, d.DirName()), 0o755))
		}
		assert.NoError(t, NewReader(root).CheckReadiness(context.Background()))
	})
}
