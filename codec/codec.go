// Package codec centralizes feature database encoding and compression.
//
// The database is a JSON object mapping image identifiers to descriptor
// arrays. Codec selection changes only the encoder implementation; every
// built-in codec produces and accepts the same indented JSON document.
// Compression is chosen from the database name: ".zst" selects zstd, ".lz4"
// selects LZ4 and anything else is stored uncompressed.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
