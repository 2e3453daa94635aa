package imagehash

import (
	"encoding/hex"
	"fmt"
	"math/bits"
)

// Distance returns the Hamming distance between two hex-encoded hashes.
func Distance(a, b string) (int, error) {
	ab, err := hex.DecodeString(a)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", a, err)
	}
	bb, err := hex.DecodeString(b)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", b, err)
	}
	if len(ab) != len(bb) {
		return 0, fmt.Errorf("hash length mismatch: %d vs %d bytes", len(ab), len(bb))
	}

	dist := 0
	for i := range ab {
		dist += bits.OnesCount8(ab[i] ^ bb[i])
	}
	return dist, nil
}
