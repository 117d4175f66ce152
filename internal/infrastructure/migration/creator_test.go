package migration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add fee index", "add_fee_index"},
		{"Add-Fee-Index", "add_fee_index"},
		{"ADD__FEE  index", "add_fee_index"},
		{"  trimmed  ", "trimmed"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"iuran 2025!", "iuran_2025"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	first, err := Create(dir, "add fee index", "Speed up monthly recap")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_fee_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_fee_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_fee_index")
	assert.Contains(t, string(up), "Speed up monthly recap")

	second, err := Create(dir, "notifications read index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	_, err = Create(dir, "???", "")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_second.up.sql", "000002_second.down.sql",
		"000010_tenth.up.sql",
		"000001_first.up.sql", "000001_first.down.sql",
		"000003_orphan.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := List(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []uint{1, 2, 10}, []uint{files[0].Version, files[1].Version, files[2].Version})
	assert.Equal(t, "second", files[1].Name)
	assert.Empty(t, files[2].DownPath)

	missing, err := List(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestList_RepositoryMigrationsArePaired(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")

	files, err := List(dir)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version, "versions must be contiguous")
		assert.NotEmpty(t, f.DownPath, "migration %d has no rollback", f.Version)
	}
}

func TestPending(t *testing.T) {
	files := []File{{Version: 1}, {Version: 2}, {Version: 10}}

	assert.Len(t, Pending(files, 0), 3)
	assert.Equal(t, []File{{Version: 10}}, Pending(files, 2))
	assert.Empty(t, Pending(files, 10))
}
