package eip712

import (
	"strconv"
	"strings"

	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/primitive"
)

// Kind is the category of a field type
type Kind uint8

const (
	KindAtomic Kind = iota
	KindStruct
	KindArray
)

var kindNames = [...]string{
	KindAtomic: "atomic",
	KindStruct: "struct",
	KindArray:  "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// FieldType is a parsed field type: an atomic type, a reference to a
// struct type by name, or an array of another field type.
type FieldType struct {
	Elem   *FieldType // array element type
	Name   string     // atomic or struct name; empty for arrays
	Length int        // fixed array length, -1 for dynamic arrays
	Kind   Kind
}

// ParseFieldType parses a type string such as "uint256", "Person" or
// "Person[][3]". The last bracket pair is the outermost array, so
// "Person[][3]" is a three-element array of dynamic Person arrays.
// Parsing is purely syntactic: any identifier that is not an atomic type
// name is taken as a struct reference.
func ParseFieldType(s string) (FieldType, error) {
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open <= 0 {
			return FieldType{}, errors.Definition("malformed array type %q", s)
		}
		length := -1
		if dim := s[open+1 : len(s)-1]; dim != "" {
			n, ok := parseLength(dim)
			if !ok {
				return FieldType{}, errors.Definition("invalid array length in %q", s)
			}
			length = n
		}
		elem, err := ParseFieldType(s[:open])
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Kind: KindArray, Elem: &elem, Length: length}, nil
	}

	if primitive.IsAtomic(s) {
		return FieldType{Kind: KindAtomic, Name: s}, nil
	}
	if !isIdentifier(s) {
		return FieldType{}, errors.Definition("invalid type name %q", s)
	}
	return FieldType{Kind: KindStruct, Name: s}, nil
}

func parseLength(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// String returns the canonical spelling of the type
func (t FieldType) String() string {
	if t.Kind != KindArray {
		return t.Name
	}
	if t.Length < 0 {
		return t.Elem.String() + "[]"
	}
	return t.Elem.String() + "[" + strconv.Itoa(t.Length) + "]"
}

// Base strips every array layer and returns the element type at the bottom
func (t FieldType) Base() FieldType {
	for t.Kind == KindArray {
		t = *t.Elem
	}
	return t
}

// isIdentifier reports whether s is usable as a type or field name. Names
// are embedded verbatim in encodeType, so separators are not allowed.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
