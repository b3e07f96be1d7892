package history

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes a source file's content. Two entries with the same
// fingerprint ran the same code, which is what `umlc history` uses to show
// whether a file changed between runs.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// FingerprintBytes hashes in-memory source, used for inline snippets.
func FingerprintBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
