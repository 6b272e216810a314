package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/primitive"
)

// WordSize is the width of one ABI slot.
const WordSize = 32

// Pack encodes values according to types. Both lists must have the same
// length. Values may be in any shape primitive.Validate accepts.
func Pack(types []string, values []any) ([]byte, error) {
	if len(types) != len(values) {
		return nil, errors.New(errors.PhaseEncode, errors.KindValidation).
			Detail("type count %d does not match value count %d", len(types), len(values)).
			Build()
	}

	head := make([]byte, 0, len(types)*WordSize)
	var tail []byte
	for i, name := range types {
		t, ok := primitive.Parse(name)
		if !ok {
			return nil, errors.New(errors.PhaseEncode, errors.KindValidation).
				Type(name).
				Detail("cannot pack non-atomic type").
				Build()
		}
		v, err := t.Validate(values[i])
		if err != nil {
			return nil, errors.Wrap(errors.PhaseEncode, errors.KindValidation, err, "pack argument")
		}

		if t.Dynamic() {
			offset := uint64(len(types)*WordSize + len(tail))
			head = append(head, uintWord(offset)...)
			tail = append(tail, dynamicTail(t, v)...)
			continue
		}
		head = append(head, staticWord(t, v)...)
	}
	return append(head, tail...), nil
}

// Word returns the single-word encoding of a static value.
func Word(name string, value any) ([]byte, error) {
	t, ok := primitive.Parse(name)
	if !ok || t.Dynamic() {
		return nil, errors.New(errors.PhaseEncode, errors.KindValidation).
			Type(name).
			Detail("not a static atomic type").
			Build()
	}
	v, err := t.Validate(value)
	if err != nil {
		return nil, err
	}
	return staticWord(t, v), nil
}

func staticWord(t primitive.Type, v any) []byte {
	switch t.Kind {
	case primitive.KindBool:
		if v.(bool) {
			return uintWord(1)
		}
		return uintWord(0)
	case primitive.KindAddress:
		return common.LeftPadBytes(v.(common.Address).Bytes(), WordSize)
	case primitive.KindFixedBytes:
		return common.RightPadBytes(v.([]byte), WordSize)
	case primitive.KindUint, primitive.KindInt:
		return intWord(v.(*big.Int))
	}
	return make([]byte, WordSize)
}

func dynamicTail(t primitive.Type, v any) []byte {
	var data []byte
	if t.Kind == primitive.KindString {
		data = []byte(v.(string))
	} else {
		data = v.([]byte)
	}
	out := uintWord(uint64(len(data)))
	padded := (len(data) + WordSize - 1) / WordSize * WordSize
	return append(out, common.RightPadBytes(data, padded)...)
}

func uintWord(n uint64) []byte {
	b := uint256.NewInt(n).Bytes32()
	return b[:]
}

// intWord encodes n as a 256-bit two's complement word. Range checks
// happen in primitive.Validate, so n always fits.
func intWord(n *big.Int) []byte {
	abs := new(big.Int).Abs(n)
	u, _ := uint256.FromBig(abs)
	if n.Sign() < 0 {
		u.Neg(u)
	}
	b := u.Bytes32()
	return b[:]
}
