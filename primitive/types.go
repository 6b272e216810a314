package primitive

import (
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindBool Kind = iota
	KindAddress
	KindString
	KindBytes
	KindFixedBytes
	KindUint
	KindInt
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindAddress:    "address",
	KindString:     "string",
	KindBytes:      "bytes",
	KindFixedBytes: "bytesN",
	KindUint:       "uintN",
	KindInt:        "intN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is a parsed atomic type. Size is the byte length for fixed bytes
// and the bit width for integers; it is zero otherwise.
type Type struct {
	Kind Kind
	Size int
}

// Parse parses an atomic type name.
func Parse(name string) (Type, bool) {
	switch name {
	case "bool":
		return Type{Kind: KindBool}, true
	case "address":
		return Type{Kind: KindAddress}, true
	case "string":
		return Type{Kind: KindString}, true
	case "bytes":
		return Type{Kind: KindBytes}, true
	}

	switch {
	case strings.HasPrefix(name, "bytes"):
		n, ok := parseSize(name[len("bytes"):])
		if !ok || n < 1 || n > 32 {
			return Type{}, false
		}
		return Type{Kind: KindFixedBytes, Size: n}, true
	case strings.HasPrefix(name, "uint"):
		n, ok := parseSize(name[len("uint"):])
		if !ok || n < 8 || n > 256 || n%8 != 0 {
			return Type{}, false
		}
		return Type{Kind: KindUint, Size: n}, true
	case strings.HasPrefix(name, "int"):
		n, ok := parseSize(name[len("int"):])
		if !ok || n < 8 || n > 256 || n%8 != 0 {
			return Type{}, false
		}
		return Type{Kind: KindInt, Size: n}, true
	}
	return Type{}, false
}

// parseSize rejects empty suffixes and leading zeros so that every
// atomic type has exactly one spelling.
func parseSize(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the canonical type name.
func (t Type) String() string {
	switch t.Kind {
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindUint:
		return "uint" + strconv.Itoa(t.Size)
	case KindInt:
		return "int" + strconv.Itoa(t.Size)
	}
	return t.Kind.String()
}

// Dynamic reports whether values of the type have variable length and
// must be hashed before they fit in a single word.
func (t Type) Dynamic() bool {
	return t.Kind == KindString || t.Kind == KindBytes
}

// IsAtomic reports whether name is an atomic type name.
func IsAtomic(name string) bool {
	_, ok := Parse(name)
	return ok
}

// IsDynamic reports whether name is string or bytes.
func IsDynamic(name string) bool {
	t, ok := Parse(name)
	return ok && t.Dynamic()
}
