// Package hasher fingerprints converted outputs so that manifests can be
// validated and repeated builds compared.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// DefaultLen is the hex length recorded in manifests (64 bits).
const DefaultLen = 16

// Sum returns the xxHash64 of data as hex, truncated to hexLen characters
// when 0 < hexLen < 16.
func Sum(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// File hashes the file at path without reading it fully into memory.
func File(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return format(h.Sum64(), hexLen), nil
}

func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
