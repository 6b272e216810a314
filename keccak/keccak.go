// Package keccak provides the Keccak-256 digest used for every hash in
// the typed data scheme.
//
// This is the original Keccak submission (legacy padding), not the
// finalized SHA3-256 standard.
package keccak

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Size is the digest length in bytes.
const Size = common.HashLength

// Sum256 returns the Keccak-256 digest of the concatenation of data.
func Sum256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// String hashes the UTF-8 bytes of s.
func String(s string) common.Hash {
	return Sum256([]byte(s))
}
