package sitedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "movies.yml")
	writeFile(t, file, "- rating: 1\n")

	first, err := Fingerprint(dir)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := Fingerprint(dir)
	require.NoError(t, err)
	assert.Equal(t, first, again, "stable for unchanged input")

	writeFile(t, file, "- rating: 2\n")
	changed, err := Fingerprint(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	require.NoError(t, os.Rename(file, filepath.Join(dir, "films.yml")))
	renamed, err := Fingerprint(dir)
	require.NoError(t, err)
	assert.NotEqual(t, changed, renamed, "renames change the fingerprint")
}

func TestFingerprint_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	withMissing, err := Fingerprint(dir, filepath.Join(dir, "absent"))
	require.NoError(t, err)
	without, err := Fingerprint(dir)
	require.NoError(t, err)
	assert.Equal(t, without, withMissing)
}
