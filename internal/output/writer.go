// Package output is the serialization boundary: it writes the final
// manifest bytes to disk, optionally gzip-compressed.
package output

import (
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/lkoehl/jsmanifest/internal/errs"
)

// Write stores data at outPath and returns the final written path.
// With compress set, a ".gz" suffix is appended (unless already
// present) and the payload is gzip-compressed.
func Write(data []byte, outPath string, compress bool) (string, error) {
	if !compress {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return "", errs.FileSystem(outPath, err)
		}
		return outPath, nil
	}

	if !strings.HasSuffix(outPath, ".gz") {
		outPath += ".gz"
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", errs.FileSystem(outPath, err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return "", errs.FileSystem(outPath, err)
	}
	if err := zw.Close(); err != nil {
		return "", errs.FileSystem(outPath, err)
	}
	if err := f.Close(); err != nil {
		return "", errs.FileSystem(outPath, err)
	}

	return outPath, nil
}
