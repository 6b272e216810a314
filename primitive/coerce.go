package primitive

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// coerceToBig handles JSON decoded numbers (float64, json.Number), Go
// integer kinds, big integers and numeric strings. Strings may be decimal
// or 0x-prefixed hex, optionally negative.
func coerceToBig(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case big.Int:
		return new(big.Int).Set(&v), true
	case *uint256.Int:
		if v == nil {
			return nil, false
		}
		return v.ToBig(), true
	case uint256.Int:
		return v.ToBig(), true
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case float64:
		return floatToBig(v)
	case float32:
		return floatToBig(float64(v))
	case json.Number:
		return parseBigString(string(v))
	case string:
		return parseBigString(v)
	}
	return nil, false
}

// floatToBig accepts only integral values that float64 represents exactly.
func floatToBig(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if math.Abs(f) > 1<<53 {
		return nil, false
	}
	return big.NewInt(int64(f)), true
}

func parseBigString(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var (
		n  *big.Int
		ok bool
	)
	if has0xPrefix(s) {
		if len(s) == 2 {
			return nil, false
		}
		n, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		n, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}

func coerceToAddress(value any) (common.Address, bool) {
	switch v := value.(type) {
	case common.Address:
		return v, true
	case *common.Address:
		if v == nil {
			return common.Address{}, false
		}
		return *v, true
	case [common.AddressLength]byte:
		return common.Address(v), true
	case []byte:
		if len(v) != common.AddressLength {
			return common.Address{}, false
		}
		return common.BytesToAddress(v), true
	case string:
		if !has0xPrefix(v) || !common.IsHexAddress(v) {
			return common.Address{}, false
		}
		return common.HexToAddress(v), true
	}
	return common.Address{}, false
}

// coerceToBytes returns a fresh copy of the byte content of value.
func coerceToBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return append([]byte{}, v...), true
	case hexutil.Bytes:
		return append([]byte{}, v...), true
	case common.Hash:
		return v.Bytes(), true
	case string:
		if !has0xPrefix(v) {
			return nil, false
		}
		b, err := hexutil.Decode(evenHex(v))
		if err != nil {
			return nil, false
		}
		return b, true
	}

	// Fixed-size byte arrays of any length.
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, true
	}
	return nil, false
}

// evenHex left-pads an odd-length hex body so hexutil accepts it. "0x"
// alone decodes to the empty byte string.
func evenHex(s string) string {
	if len(s)%2 == 1 {
		return "0x0" + s[2:]
	}
	return s
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
