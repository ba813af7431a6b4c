package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes parts into a fixed width hex digest. Parts are separated so that
// ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) string {
	digest := xxhash.New()

	for _, part := range parts {
		_, _ = digest.WriteString(part)
		_, _ = digest.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", digest.Sum64())
}
