package puzzle

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashes. The version suffix allows changing
// the algorithm without colliding with stored fingerprints.
const (
	DomainInput  = "aoc/input/v1"
	DomainSource = "aoc/source/v1"
	DomainPuzzle = "aoc/puzzle/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return h.Sum(nil)
}

// Fingerprint combines the puzzle input and the solution source into a
// single hex digest. A stored answer with the same fingerprint was computed
// from identical code and data and can be reused without running again.
func Fingerprint(input, source []byte) string {
	combined := append(hashWithDomain(DomainInput, input), hashWithDomain(DomainSource, source)...)
	return hex.EncodeToString(hashWithDomain(DomainPuzzle, combined))
}
