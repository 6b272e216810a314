package signer

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/keccak"
)

// SignatureLength is the length of an r ‖ s ‖ v signature.
const SignatureLength = 65

// recoveryOffset is added to the recovery id in the v byte.
const recoveryOffset = 27

// Signer signs a 32-byte digest.
type Signer interface {
	Sign(digest common.Hash) ([]byte, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(digest common.Hash) ([]byte, error)

// Sign calls f(digest).
func (f SignerFunc) Sign(digest common.Hash) ([]byte, error) {
	return f(digest)
}

// Verifier recovers the signer of a digest and compares it to an address.
type Verifier interface {
	RecoverAndCompare(digest common.Hash, signature []byte, address string) (bool, error)
}

// PrivateKeySigner signs with an in-memory secp256k1 key.
type PrivateKeySigner struct {
	key *secp256k1.PrivateKey
}

// NewPrivateKeySigner wraps key.
func NewPrivateKeySigner(key *secp256k1.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{key: key}
}

// FromHex parses a 0x-prefixed 32-byte private key.
func FromHex(s string) (*PrivateKeySigner, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.New(errors.PhaseSign, errors.KindSigner).
			Detail("private key is not 0x-prefixed hex").
			Cause(err).
			Build()
	}
	if len(b) != secp256k1.PrivKeyBytesLen {
		return nil, errors.New(errors.PhaseSign, errors.KindSigner).
			Detail("private key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(b)).
			Build()
	}
	return NewPrivateKeySigner(secp256k1.PrivKeyFromBytes(b)), nil
}

// Address returns the account address of the key.
func (s *PrivateKeySigner) Address() common.Address {
	return PubkeyToAddress(s.key.PubKey())
}

// Sign produces a deterministic (RFC 6979) r ‖ s ‖ v signature over digest.
func (s *PrivateKeySigner) Sign(digest common.Hash) ([]byte, error) {
	if s == nil || s.key == nil {
		return nil, errors.Signer("no private key", nil)
	}
	// SignCompact returns v ‖ r ‖ s with v = 27 + recovery id.
	compact := ecdsa.SignCompact(s.key, digest[:], false)
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig, nil
}

// PubkeyToAddress derives the account address: the last 20 bytes of the
// Keccak-256 of the uncompressed public key without its 0x04 prefix.
func PubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	uncompressed := pub.SerializeUncompressed()
	return common.BytesToAddress(keccak.Sum256(uncompressed[1:]).Bytes()[12:])
}

// Recover returns the address that produced signature over digest.
func Recover(digest common.Hash, signature []byte) (common.Address, error) {
	compact, err := toCompact(signature)
	if err != nil {
		return common.Address{}, err
	}
	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return common.Address{}, errors.New(errors.PhaseVerify, errors.KindValidation).
			Detail("signature does not recover to a public key").
			Cause(err).
			Build()
	}
	return PubkeyToAddress(pub), nil
}

// toCompact reorders r ‖ s ‖ v into the v ‖ r ‖ s form RecoverCompact
// expects, normalizing v to 27 or 28.
func toCompact(signature []byte) ([]byte, error) {
	if len(signature) != SignatureLength {
		return nil, errors.New(errors.PhaseVerify, errors.KindValidation).
			Detail("signature must be %d bytes, got %d", SignatureLength, len(signature)).
			Build()
	}
	v := signature[64]
	if v < recoveryOffset {
		v += recoveryOffset
	}
	if v != recoveryOffset && v != recoveryOffset+1 {
		return nil, errors.New(errors.PhaseVerify, errors.KindValidation).
			Detail("invalid recovery byte %d", signature[64]).
			Build()
	}
	compact := make([]byte, SignatureLength)
	compact[0] = v
	copy(compact[1:], signature[:64])
	return compact, nil
}

// RecoverVerifier verifies by public key recovery.
type RecoverVerifier struct{}

// RecoverAndCompare reports whether signature over digest was made by
// address. Addresses compare case-insensitively. A well-formed signature
// from another key, or one that recovers to no key, yields false with a
// nil error; malformed signatures and addresses are validation errors.
func (RecoverVerifier) RecoverAndCompare(digest common.Hash, signature []byte, address string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, errors.New(errors.PhaseVerify, errors.KindValidation).
			Type("address").
			Value(address).
			Detail("not a hex address").
			Build()
	}
	compact, err := toCompact(signature)
	if err != nil {
		return false, err
	}
	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return false, nil
	}
	return PubkeyToAddress(pub) == common.HexToAddress(address), nil
}
