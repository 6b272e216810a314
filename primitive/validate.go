package primitive

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wippyai/typeddata/errors"
)

// Validate normalizes raw against the atomic type called name. Unknown
// type names and malformed values are validation errors.
func Validate(name string, raw any) (any, error) {
	t, ok := Parse(name)
	if !ok {
		return nil, errors.Invalid(nil, name, raw, "not an atomic type")
	}
	return t.Validate(raw)
}

// Validate normalizes raw against t.
func (t Type) Validate(raw any) (any, error) {
	switch t.Kind {
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, t.invalid(raw, "expected a boolean")
		}
		return b, nil

	case KindAddress:
		addr, ok := coerceToAddress(raw)
		if !ok {
			return nil, t.invalid(raw, "expected a 0x-prefixed 20-byte hex address")
		}
		return addr, nil

	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, t.invalid(raw, "expected a string")
		}
		return s, nil

	case KindBytes:
		b, ok := coerceToBytes(raw)
		if !ok {
			return nil, t.invalid(raw, "expected 0x-prefixed hex or a byte slice")
		}
		return b, nil

	case KindFixedBytes:
		b, ok := coerceToBytes(raw)
		if !ok {
			return nil, t.invalid(raw, "expected 0x-prefixed hex or a byte slice")
		}
		if len(b) != t.Size {
			return nil, t.invalid(raw, fmt.Sprintf("expected %d bytes, got %d", t.Size, len(b)))
		}
		return b, nil

	case KindUint, KindInt:
		n, ok := coerceToBig(raw)
		if !ok {
			return nil, t.invalid(raw, "expected an integer")
		}
		if !t.inRange(n) {
			return nil, t.invalid(raw, fmt.Sprintf("value %s out of range", n))
		}
		return n, nil
	}
	return nil, t.invalid(raw, "unsupported atomic type")
}

func (t Type) inRange(n *big.Int) bool {
	if t.Kind == KindUint {
		return n.Sign() >= 0 && n.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	if n.Sign() >= 0 {
		return n.Cmp(limit) < 0
	}
	return n.Cmp(limit.Neg(limit)) >= 0
}

func (t Type) invalid(raw any, detail string) *errors.Error {
	return errors.Invalid(nil, t.String(), raw, detail)
}

// Serialize returns the plain form of a normalized value: checksummed
// hex for addresses, 0x hex for byte strings, *big.Int for integers.
func Serialize(name string, value any) (any, error) {
	t, ok := Parse(name)
	if !ok {
		return nil, errors.Invalid(nil, name, value, "not an atomic type")
	}
	return t.Serialize(value)
}

// Serialize returns the plain form of a value previously returned by
// Validate. Values in any accepted raw shape are normalized first.
func (t Type) Serialize(value any) (any, error) {
	v, err := t.Validate(value)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case KindAddress:
		return v.(common.Address).Hex(), nil
	case KindBytes, KindFixedBytes:
		return hexutil.Encode(v.([]byte)), nil
	}
	return v, nil
}
