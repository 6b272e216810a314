package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wippyai/typeddata/eip712/internal/abi"
	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/keccak"
	"github.com/wippyai/typeddata/primitive"
	"github.com/wippyai/typeddata/signer"
)

// digestPrefix starts every final digest preimage
var digestPrefix = []byte{0x19, 0x01}

// EncodeData returns typeHash followed by one 32-byte word per field
func (s *Struct) EncodeData() ([]byte, error) {
	return s.typ.domain.encodeData(s.typ.def, s.values, []string{s.typ.def.name})
}

// HashStruct returns keccak256(EncodeData())
func (s *Struct) HashStruct() (common.Hash, error) {
	data, err := s.EncodeData()
	if err != nil {
		return common.Hash{}, err
	}
	return keccak.Sum256(data), nil
}

// Encode returns the final digest preimage 0x19 0x01 ‖ domainSeparator ‖ hashStruct
func (s *Struct) Encode() ([]byte, error) {
	h, err := s.HashStruct()
	if err != nil {
		return nil, err
	}
	sep := s.typ.domain.separator
	out := make([]byte, 0, len(digestPrefix)+2*common.HashLength)
	out = append(out, digestPrefix...)
	out = append(out, sep[:]...)
	return append(out, h[:]...), nil
}

// SignHash returns keccak256(Encode()), the digest that gets signed
func (s *Struct) SignHash() (common.Hash, error) {
	data, err := s.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return keccak.Sum256(data), nil
}

// Sign signs the instance's SignHash with sgn
func (s *Struct) Sign(sgn signer.Signer) ([]byte, error) {
	if sgn == nil {
		return nil, errors.Signer("must provide a signer", nil)
	}
	if fn, ok := sgn.(signer.SignerFunc); ok && fn == nil {
		return nil, errors.Signer("signer function is nil", nil)
	}
	digest, err := s.SignHash()
	if err != nil {
		return nil, err
	}
	sig, err := sgn.Sign(digest)
	if err != nil {
		return nil, errors.Signer("signer failed", err)
	}
	return sig, nil
}

// VerifySignature reports whether sig over SignHash was produced by
// address. A nil verifier recovers the secp256k1 public key.
func (s *Struct) VerifySignature(sig []byte, address string, v signer.Verifier) (bool, error) {
	if v == nil {
		v = signer.RecoverVerifier{}
	}
	digest, err := s.SignHash()
	if err != nil {
		return false, err
	}
	return v.RecoverAndCompare(digest, sig, address)
}

func (d *Domain) encodeData(def *TypeDefinition, values map[string]any, path []string) ([]byte, error) {
	types := make([]string, 0, len(def.fields)+1)
	words := make([]any, 0, len(def.fields)+1)
	types = append(types, "bytes32")
	words = append(words, def.hash)

	for i, f := range def.fields {
		t, w, err := d.encodeField(def.types[i], values[f.Name], appendPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		words = append(words, w)
	}

	data, err := abi.Pack(types, words)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindValidation, err, "pack "+def.name)
	}
	return data, nil
}

// encodeField maps a field value to the (wire type, value) pair packed
// into encodeData. Atomic static values pass through; dynamic values,
// structs and arrays collapse to a bytes32 hash.
func (d *Domain) encodeField(ft FieldType, v any, path []string) (string, any, error) {
	switch ft.Kind {
	case KindAtomic:
		if !primitive.IsDynamic(ft.Name) {
			return ft.Name, v, nil
		}
		switch b := v.(type) {
		case string:
			return "bytes32", keccak.String(b), nil
		case []byte:
			return "bytes32", keccak.Sum256(b), nil
		}
		return "", nil, encodeError(path, ft, v, "expected a normalized dynamic value")

	case KindStruct:
		s, ok := v.(*Struct)
		if !ok || s == nil {
			return "", nil, encodeError(path, ft, v, "expected an instance")
		}
		h, err := s.HashStruct()
		if err != nil {
			return "", nil, err
		}
		return "bytes32", h, nil

	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return "", nil, encodeError(path, ft, v, "expected an array")
		}
		types := make([]string, len(items))
		words := make([]any, len(items))
		for i, item := range items {
			t, w, err := d.encodeField(*ft.Elem, item, indexPath(path, i))
			if err != nil {
				return "", nil, err
			}
			types[i] = t
			words[i] = w
		}
		packed, err := abi.Pack(types, words)
		if err != nil {
			return "", nil, errors.Wrap(errors.PhaseEncode, errors.KindValidation, err, "pack "+ft.String())
		}
		return "bytes32", keccak.Sum256(packed), nil
	}
	return "", nil, encodeError(path, ft, v, "unsupported field type")
}

func encodeError(path []string, ft FieldType, v any, detail string) error {
	return errors.New(errors.PhaseEncode, errors.KindValidation).
		Path(path...).
		GoType(fmt.Sprintf("%T", v)).
		Type(ft.String()).
		Value(v).
		Detail("%s", detail).
		Build()
}
