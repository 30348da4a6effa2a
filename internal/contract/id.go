package contract

import (
	"crypto/rand"
	"time"
)

// Crockford-style alphabet, lowercased for filenames.
const fileIDChars = "0123456789abcdefghjkmnpqrstvwxyz"

// newFileID returns a short time-sortable identifier for generated filenames:
// 48-bit millisecond timestamp plus 40 random bits, base32 encoded. Distinct
// per request, so concurrent generations never collide on an output path.
func newFileID() string {
	ts := uint64(time.Now().UnixMilli())
	var rnd [5]byte
	rand.Read(rnd[:])

	var tail uint64
	for _, b := range rnd {
		tail = tail<<8 | uint64(b)
	}

	buf := make([]byte, 0, 18)
	for shift := 45; shift >= 0; shift -= 5 {
		buf = append(buf, fileIDChars[(ts>>uint(shift))&31])
	}
	for shift := 35; shift >= 0; shift -= 5 {
		buf = append(buf, fileIDChars[(tail>>uint(shift))&31])
	}
	return string(buf)
}
