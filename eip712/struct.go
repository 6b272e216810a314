package eip712

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/primitive"
)

// StructType is a registered struct type bound to its domain
type StructType struct {
	def    *TypeDefinition
	domain *Domain
}

func (t *StructType) Name() string                            { return t.def.name }
func (t *StructType) Fields() []Field                         { return t.def.Fields() }
func (t *StructType) Dependencies() []string                  { return t.def.Dependencies() }
func (t *StructType) EncodeType() string                      { return t.def.EncodeType() }
func (t *StructType) EncodeTypeFragment() string              { return t.def.EncodeTypeFragment() }
func (t *StructType) TypeHash() common.Hash                   { return t.def.TypeHash() }
func (t *StructType) Domain() *Domain                         { return t.domain }
func (t *StructType) Definition() *TypeDefinition             { return t.def }
func (t *StructType) FieldType(name string) (FieldType, bool) { return t.def.FieldType(name) }

// New validates values against the type and returns an instance. Every
// declared field must be present. Keys that are not declared fields are
// rejected with a field_unknown error rather than ignored, so a message
// carrying data the signer would never see fails early.
func (t *StructType) New(values map[string]any) (*Struct, error) {
	return t.domain.newStruct(t.def, values, []string{t.def.name})
}

// Struct is an instance of a struct type holding validated values.
// A Struct is not safe for concurrent mutation.
type Struct struct {
	typ    *StructType
	values map[string]any
}

// Type returns the instance's struct type
func (s *Struct) Type() *StructType { return s.typ }

// Domain returns the domain the instance was created in
func (s *Struct) Domain() *Domain { return s.typ.domain }

// Get returns a copy of the normalized value of a field. Nested structs
// are returned as the stored *Struct, arrays as a fresh []any. Changing
// the result does not change the instance; use Set for that.
func (s *Struct) Get(name string) (any, bool) {
	v, ok := s.values[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Set validates raw against the field's declared type and stores it. On
// failure the instance is left unchanged.
func (s *Struct) Set(name string, raw any) error {
	ft, ok := s.typ.def.FieldType(name)
	if !ok {
		return errors.FieldUnknown([]string{s.typ.def.name}, name)
	}
	v, err := s.typ.domain.validateValue(ft, raw, []string{s.typ.def.name, name})
	if err != nil {
		return err
	}
	s.values[name] = v
	return nil
}

// ToObject returns the instance in plain form: nested structs become maps,
// addresses checksummed strings, bytes 0x hex and integers *big.Int.
func (s *Struct) ToObject() (map[string]any, error) {
	out := make(map[string]any, len(s.values))
	for i, f := range s.typ.def.fields {
		v, err := serializeValue(s.typ.def.types[i], s.values[f.Name])
		if err != nil {
			return nil, withPath(err, []string{s.typ.def.name, f.Name})
		}
		out[f.Name] = v
	}
	return out, nil
}

// Validate normalizes raw against a type string: an atomic type, a
// registered struct name, or an array of either.
func (d *Domain) Validate(typ string, raw any) (any, error) {
	ft, err := d.resolveType(typ)
	if err != nil {
		return nil, err
	}
	return d.validateValue(ft, raw, nil)
}

// Serialize converts a value of the given type to plain form
func (d *Domain) Serialize(typ string, value any) (any, error) {
	ft, err := d.resolveType(typ)
	if err != nil {
		return nil, err
	}
	v, err := d.validateValue(ft, value, nil)
	if err != nil {
		return nil, err
	}
	return serializeValue(ft, v)
}

func (d *Domain) resolveType(typ string) (FieldType, error) {
	ft, err := ParseFieldType(typ)
	if err != nil {
		return FieldType{}, errors.New(errors.PhaseValidate, errors.KindTypeNotFound).
			Type(typ).
			Detail("%s", detailOf(err)).
			Build()
	}
	if base := ft.Base(); base.Kind == KindStruct {
		if _, ok := d.registry.Lookup(base.Name); !ok {
			return FieldType{}, errors.TypeNotFound(errors.PhaseValidate, base.Name)
		}
	}
	return ft, nil
}

func (d *Domain) validateValue(ft FieldType, raw any, path []string) (any, error) {
	switch ft.Kind {
	case KindAtomic:
		v, err := primitive.Validate(ft.Name, raw)
		if err != nil {
			return nil, withPath(err, path)
		}
		return v, nil

	case KindArray:
		items, ok := toSlice(raw)
		if !ok {
			return nil, errors.Invalid(path, ft.String(), raw, "expected an array")
		}
		if ft.Length >= 0 && len(items) != ft.Length {
			return nil, errors.Invalid(path, ft.String(), raw,
				fmt.Sprintf("expected %d elements, got %d", ft.Length, len(items)))
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := d.validateValue(*ft.Elem, item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case KindStruct:
		def, ok := d.registry.Lookup(ft.Name)
		if !ok {
			return nil, errors.TypeNotFound(errors.PhaseValidate, ft.Name)
		}
		switch v := raw.(type) {
		case *Struct:
			if v == nil || v.typ.def != def || v.typ.domain != d {
				return nil, errors.Invalid(path, ft.Name, raw, "instance belongs to a different type or domain")
			}
			return v, nil
		case map[string]any:
			return d.newStruct(def, v, path)
		}
		return nil, errors.Invalid(path, ft.Name, raw, "expected an object or an instance")
	}
	return nil, errors.Invalid(path, ft.String(), raw, "unsupported field type")
}

func (d *Domain) newStruct(def *TypeDefinition, raw map[string]any, path []string) (*Struct, error) {
	if raw == nil {
		return nil, errors.Invalid(path, def.name, raw, "expected an object")
	}
	extra := make([]string, 0)
	for key := range raw {
		if _, ok := def.index[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, errors.FieldUnknown(path, extra[0])
	}

	values := make(map[string]any, len(def.fields))
	for i, f := range def.fields {
		fv, ok := raw[f.Name]
		if !ok {
			return nil, errors.FieldMissing(path, f.Name)
		}
		v, err := d.validateValue(def.types[i], fv, appendPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return &Struct{typ: &StructType{def: def, domain: d}, values: values}, nil
}

func serializeValue(ft FieldType, v any) (any, error) {
	switch ft.Kind {
	case KindAtomic:
		return primitive.Serialize(ft.Name, v)
	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return nil, errors.Invalid(nil, ft.String(), v, "expected an array")
		}
		out := make([]any, len(items))
		for i, item := range items {
			sv, err := serializeValue(*ft.Elem, item)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	case KindStruct:
		s, ok := v.(*Struct)
		if !ok || s == nil {
			return nil, errors.Invalid(nil, ft.Name, v, "expected an instance")
		}
		return s.ToObject()
	}
	return nil, errors.Invalid(nil, ft.String(), v, "unsupported field type")
}

// cloneValue deep copies a normalized value. *Struct is kept by reference.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []byte:
		return append([]byte{}, x...)
	case *big.Int:
		return new(big.Int).Set(x)
	}
	return v
}

// toSlice accepts []any and any other slice or array kind except strings
func toSlice(raw any) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, true
	}
	if raw == nil {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func withPath(err error, path []string) error {
	e, ok := err.(*errors.Error)
	if !ok || len(e.Path) > 0 || len(path) == 0 {
		return err
	}
	cp := *e
	cp.Path = append([]string(nil), path...)
	return &cp
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func indexPath(path []string, i int) []string {
	if len(path) == 0 {
		return []string{fmt.Sprintf("[%d]", i)}
	}
	out := append([]string(nil), path...)
	out[len(out)-1] = fmt.Sprintf("%s[%d]", out[len(out)-1], i)
	return out
}
