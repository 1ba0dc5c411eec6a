package dataset

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Fingerprint is a 128-bit content hash of a dataset file. Equal
// fingerprints mean identical bytes for reload purposes.
type Fingerprint struct {
	Hi, Lo uint64
}

// FingerprintBytes computes the murmur3 128-bit fingerprint of data.
func FingerprintBytes(data []byte) Fingerprint {
	h := murmur3.New128()
	h.Write(data)
	hi, lo := h.Sum128()
	return Fingerprint{Hi: hi, Lo: lo}
}

// String returns the fingerprint as fixed-width hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x", f.Hi, f.Lo)
}
