package history

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Captured output is stored as a tagged blob: one scheme byte, then the
// payload. Small payloads stay raw; anything over the threshold is lz4
// frame compressed.
const (
	schemeRaw = 0x00
	schemeLZ4 = 0x01

	compressThreshold = 4 * 1024
)

func encodeBlob(text string) ([]byte, error) {
	data := []byte(text)
	if len(data) < compressThreshold {
		return append([]byte{schemeRaw}, data...), nil
	}

	var buf bytes.Buffer
	buf.WriteByte(schemeLZ4)
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing output: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing output: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBlob(blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", nil
	}
	scheme, payload := blob[0], blob[1:]
	switch scheme {
	case schemeRaw:
		return string(payload), nil
	case schemeLZ4:
		zr := lz4.NewReader(bytes.NewReader(payload))
		data, err := io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("decompressing output: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown blob scheme 0x%02x", scheme)
	}
}
