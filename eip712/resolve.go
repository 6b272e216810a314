package eip712

import (
	"sort"
	"strings"

	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/keccak"
)

type lookupFunc func(name string) (*TypeDefinition, bool)

// compileDefinition checks a declaration against the types visible
// through lookup and computes its dependencies, encodeType and typeHash.
func compileDefinition(name string, fields []Field, lookup lookupFunc) (*TypeDefinition, error) {
	def := &TypeDefinition{
		name:   name,
		index:  make(map[string]int, len(fields)),
		fields: make([]Field, 0, len(fields)),
		types:  make([]FieldType, 0, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, definitionAt(name, "field %d: missing name", i)
		}
		if !isIdentifier(f.Name) {
			return nil, definitionAt(name, "invalid field name %q", f.Name)
		}
		if f.Type == "" {
			return nil, definitionAt(name, "field %q: missing type", f.Name)
		}
		if _, dup := def.index[f.Name]; dup {
			return nil, definitionAt(name, "duplicate field %q", f.Name)
		}

		ft, err := ParseFieldType(f.Type)
		if err != nil {
			return nil, definitionAt(name, "field %q: %s", f.Name, detailOf(err))
		}
		if base := ft.Base(); base.Kind == KindStruct {
			if base.Name == name {
				return nil, errors.NewCycleError([]string{name, name})
			}
			if _, ok := lookup(base.Name); !ok {
				return nil, definitionAt(name, "field %q references undefined type %q", f.Name, base.Name)
			}
		}

		def.index[f.Name] = len(def.fields)
		def.fields = append(def.fields, Field{Name: f.Name, Type: ft.String()})
		def.types = append(def.types, ft)
	}

	def.deps = findDependencies(def, lookup)
	def.encoded = encodeType(def, lookup)
	def.hash = keccak.String(def.encoded)
	return def, nil
}

// findDependencies collects the struct types reachable from def, array
// layers stripped, deduplicated and sorted by name. def itself is never
// included.
func findDependencies(def *TypeDefinition, lookup lookupFunc) []string {
	seen := map[string]bool{def.name: true}
	var walk func(types []FieldType)
	walk = func(types []FieldType) {
		for _, ft := range types {
			base := ft.Base()
			if base.Kind != KindStruct || seen[base.Name] {
				continue
			}
			seen[base.Name] = true
			if dep, ok := lookup(base.Name); ok {
				walk(dep.types)
			}
		}
	}
	walk(def.types)

	deps := make([]string, 0, len(seen)-1)
	for name := range seen {
		if name != def.name {
			deps = append(deps, name)
		}
	}
	sort.Strings(deps)
	return deps
}

func encodeType(def *TypeDefinition, lookup lookupFunc) string {
	var b strings.Builder
	b.WriteString(def.EncodeTypeFragment())
	for _, name := range def.deps {
		if dep, ok := lookup(name); ok {
			b.WriteString(dep.EncodeTypeFragment())
		}
	}
	return b.String()
}

func fragment(name string, fields []Field) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Type)
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')
	return b.String()
}

func definitionAt(typeName, detail string, args ...any) error {
	return errors.New(errors.PhaseDefine, errors.KindDefinition).
		Type(typeName).
		Detail(detail, args...).
		Build()
}

func detailOf(err error) string {
	if e, ok := err.(*errors.Error); ok && e.Detail != "" {
		return e.Detail
	}
	return err.Error()
}
