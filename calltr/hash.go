package calltr

import "github.com/sipwatch/dialogtrack/bytescase"

// hash functions (for hash tables) ported from ser C versions (hashes.h).
// Only GetHash survives here, repurposed as a cheap payload fingerprint for
// the retransmission detector's fast path (§4.2) -- the hash-table sizing
// and bucket-chaining code that used to surround it belonged to the call
// registry, out of scope for this package.

func hashUpdate(h uint32, buf []byte) uint32 {
	i := 0
	for ; i <= len(buf)-4; i += 4 {
		v := (uint32(buf[i]) << 24) + (uint32(buf[i+1]) << 16) +
			(uint32(buf[i+2]) << 8) + uint32(buf[i+3])
		h += v ^ (v >> 3)
	}
	var v uint32
	switch len(buf) - i {
	case 3:
		v = (uint32(buf[i]) << 16) + (uint32(buf[i+1]) << 8) + uint32(buf[i+2])
	case 2:
		v = (uint32(buf[i]) << 8) + uint32(buf[i+1])
	case 1:
		v = uint32(buf[i])
	}
	h += v ^ (v >> 3)
	return h
}

func hashFinish(h uint32) uint32 {
	return h + (h >> 11) + (h >> 13) + (h >> 23)
}

// GetHash returns a cheap, non-cryptographic fingerprint of buf.
func GetHash(buf []byte) uint32 {
	return hashFinish(hashUpdate(0, buf))
}

// caseFoldedHash fingerprints buf the same way GetHash does, but after
// lower-casing every byte, so two payloads that are equal under §4.2's
// case-insensitive comparison always land on the same hash -- a mismatch
// here is therefore proof the payloads differ, usable to skip the full
// bytescase.CmpEq call.
func caseFoldedHash(buf []byte) uint32 {
	folded := make([]byte, len(buf))
	for i, b := range buf {
		folded[i] = bytescase.ByteToLower(b)
	}
	return GetHash(folded)
}
