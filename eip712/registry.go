package eip712

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wippyai/typeddata/errors"
)

// TypeDefinition is a compiled struct declaration. It is immutable once
// registered; encodeType and typeHash are computed at registration.
type TypeDefinition struct {
	index   map[string]int
	name    string
	encoded string
	fields  []Field
	types   []FieldType
	deps    []string
	hash    common.Hash
}

// Name returns the type name
func (d *TypeDefinition) Name() string { return d.name }

// Fields returns a copy of the declared fields with canonical type spellings
func (d *TypeDefinition) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// FieldType returns the parsed type of the named field
func (d *TypeDefinition) FieldType(name string) (FieldType, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldType{}, false
	}
	return d.types[i], true
}

// Dependencies returns every struct type reachable from this one, sorted
// by name, without the type itself.
func (d *TypeDefinition) Dependencies() []string {
	return append([]string(nil), d.deps...)
}

// EncodeTypeFragment returns "Name(type1 name1,type2 name2,...)"
func (d *TypeDefinition) EncodeTypeFragment() string {
	return fragment(d.name, d.fields)
}

// EncodeType returns the fragment followed by the fragments of every
// dependency in alphabetical order.
func (d *TypeDefinition) EncodeType() string { return d.encoded }

// TypeHash returns keccak256(EncodeType())
func (d *TypeDefinition) TypeHash() common.Hash { return d.hash }

// Registry maps type names to compiled definitions. Reads are safe for
// concurrent use; writes are expected during a single-writer setup phase.
type Registry struct {
	defs  map[string]*TypeDefinition
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*TypeDefinition),
	}
}

// Lookup returns the definition registered under name
func (r *Registry) Lookup(name string) (*TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns registered type names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

type declaration struct {
	name   string
	fields []Field
}

// define compiles decls in order and commits them together. Later
// declarations may reference earlier ones in the same batch. Nothing is
// committed if any declaration fails.
func (r *Registry) define(decls []declaration) ([]*TypeDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[string]*TypeDefinition, len(decls))
	lookup := func(name string) (*TypeDefinition, bool) {
		if def, ok := staged[name]; ok {
			return def, true
		}
		def, ok := r.defs[name]
		return def, ok
	}

	out := make([]*TypeDefinition, 0, len(decls))
	for _, decl := range decls {
		if _, exists := lookup(decl.name); exists {
			return nil, errors.New(errors.PhaseDefine, errors.KindDefinition).
				Type(decl.name).
				Detail("type %q is already defined", decl.name).
				Build()
		}
		def, err := compileDefinition(decl.name, decl.fields, lookup)
		if err != nil {
			return nil, err
		}
		staged[decl.name] = def
		out = append(out, def)
	}

	for _, def := range out {
		r.defs[def.name] = def
		r.order = append(r.order, def.name)
	}
	return out, nil
}
