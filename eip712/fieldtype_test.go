package eip712

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/typeddata/errors"
)

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		in     string
		kind   Kind
		base   string
		length int
	}{
		{"uint256", KindAtomic, "uint256", 0},
		{"bytes32", KindAtomic, "bytes32", 0},
		{"Person", KindStruct, "Person", 0},
		{"Person[]", KindArray, "Person", -1},
		{"uint8[3]", KindArray, "uint8", 3},
		{"Person[][3]", KindArray, "Person", 3},
		{"uint", KindStruct, "uint", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ft, err := ParseFieldType(tt.in)
			if err != nil {
				t.Fatalf("ParseFieldType(%q): %v", tt.in, err)
			}
			if ft.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ft.Kind, tt.kind)
			}
			if got := ft.Base().Name; got != tt.base {
				t.Errorf("Base = %q, want %q", got, tt.base)
			}
			if ft.Kind == KindArray && ft.Length != tt.length {
				t.Errorf("Length = %d, want %d", ft.Length, tt.length)
			}
			if got := ft.String(); got != tt.in {
				t.Errorf("String = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestParseFieldTypeOutermostLast(t *testing.T) {
	ft, err := ParseFieldType("Person[][3]")
	if err != nil {
		t.Fatal(err)
	}
	if ft.Length != 3 {
		t.Fatalf("outer Length = %d, want 3", ft.Length)
	}
	if ft.Elem.Kind != KindArray || ft.Elem.Length != -1 {
		t.Errorf("inner = %+v, want dynamic array", *ft.Elem)
	}
}

func TestParseFieldTypeErrors(t *testing.T) {
	for _, in := range []string{"", "[]", "Person[", "Person]", "uint8[0]", "uint8[03]", "uint8[x]", "Per son", "1Person", "Person[]x"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseFieldType(in)
			if err == nil {
				t.Fatalf("ParseFieldType(%q) succeeded", in)
			}
			if !stderrors.Is(err, errors.ErrDefinition) {
				t.Errorf("error = %v, want definition error", err)
			}
		})
	}
}
