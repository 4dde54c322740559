package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkoehl/jsmanifest/internal/errs"
)

// Test Plan for the Manifest Writer:
// - Plain write returns the given path with the given bytes
// - Compressed write appends .gz and the payload gunzips back
// - An existing .gz suffix is not doubled
// - An unwritable output path is a file-system error

func TestWrite_Plain(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "manifest.json")
	data := []byte(`{"version":"1.0"}`)

	written, err := Write(data, outPath, false)
	require.NoError(t, err)
	assert.Equal(t, outPath, written)

	onDisk, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestWrite_Compressed(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "manifest.json")
	data := []byte(`{"version":"1.0","files":[]}`)

	written, err := Write(data, outPath, true)
	require.NoError(t, err)
	assert.Equal(t, outPath+".gz", written)

	compressed, err := os.ReadFile(written)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestWrite_GzSuffixNotDoubled(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "manifest.json.gz")

	written, err := Write([]byte("{}"), outPath, true)
	require.NoError(t, err)
	assert.Equal(t, outPath, written)
}

func TestWrite_UnwritablePath(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "missing", "deep", "manifest.json")

	_, err := Write([]byte("{}"), outPath, false)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindFileSystem))
	assert.Contains(t, err.Error(), "manifest.json")
}
