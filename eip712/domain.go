package eip712

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/wippyai/typeddata/eip712/internal/graph"
	"github.com/wippyai/typeddata/errors"
	"github.com/wippyai/typeddata/keccak"
	"github.com/wippyai/typeddata/primitive"
)

// DomainTypeName is the reserved name of the implicit domain type
const DomainTypeName = "EIP712Domain"

var domainProperties = []Field{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
	{Name: "salt", Type: "bytes32"},
}

// DomainProperties returns the recognized domain properties in canonical
// order.
func DomainProperties() []Field {
	return append([]Field(nil), domainProperties...)
}

// Domain is a signing domain: a set of domain properties, the struct types
// declared under it, and the domain separator derived from the properties.
//
// The separator is fixed at construction. Types may be registered later;
// once registration is done the domain is safe for concurrent use.
type Domain struct {
	registry  *Registry
	def       *TypeDefinition
	values    map[string]any
	separator common.Hash
}

// NewDomain validates props against the recognized domain properties and
// computes the domain separator. Only the properties present take part in
// the EIP712Domain type.
func NewDomain(props map[string]any) (*Domain, error) {
	if len(props) == 0 {
		return nil, errors.Definition("domain requires at least one property")
	}
	known := make(map[string]bool, len(domainProperties))
	for _, p := range domainProperties {
		known[p.Name] = true
	}
	for _, key := range sortedKeys(props) {
		if !known[key] {
			return nil, errors.New(errors.PhaseDefine, errors.KindDefinition).
				Type(DomainTypeName).
				Detail("unrecognized domain property %q", key).
				Build()
		}
	}

	var fields []Field
	values := make(map[string]any, len(props))
	for _, p := range domainProperties {
		raw, ok := props[p.Name]
		if !ok {
			continue
		}
		v, err := primitive.Validate(p.Type, raw)
		if err != nil {
			return nil, withPath(err, []string{DomainTypeName, p.Name})
		}
		fields = append(fields, p)
		values[p.Name] = v
	}

	def, err := compileDefinition(DomainTypeName, fields, func(string) (*TypeDefinition, bool) { return nil, false })
	if err != nil {
		return nil, err
	}

	d := &Domain{
		registry: NewRegistry(),
		def:      def,
		values:   values,
	}
	data, err := d.encodeData(def, values, []string{DomainTypeName})
	if err != nil {
		return nil, err
	}
	d.separator = keccak.Sum256(data)

	Logger().Debug("domain created",
		zap.String("encodeType", def.EncodeType()),
		zap.Stringer("separator", d.separator))
	return d, nil
}

// Separator returns the domain separator, hashStruct of the domain values
func (d *Domain) Separator() common.Hash { return d.separator }

// Definition returns the implicit EIP712Domain definition
func (d *Domain) Definition() *TypeDefinition { return d.def }

// EncodeType returns the encodeType string of the EIP712Domain type
func (d *Domain) EncodeType() string { return d.def.EncodeType() }

// TypeHash returns the typeHash of the EIP712Domain type
func (d *Domain) TypeHash() common.Hash { return d.def.TypeHash() }

// EncodeData returns typeHash followed by the encoded domain values
func (d *Domain) EncodeData() ([]byte, error) {
	return d.encodeData(d.def, d.values, []string{DomainTypeName})
}

// Get returns a copy of the normalized value of a present domain property
func (d *Domain) Get(name string) (any, bool) {
	v, ok := d.values[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// ToObject returns the present domain properties in plain form
func (d *Domain) ToObject() map[string]any {
	out := make(map[string]any, len(d.values))
	for _, f := range d.def.fields {
		v, err := primitive.Serialize(f.Type, d.values[f.Name])
		if err != nil {
			// values were normalized at construction
			continue
		}
		out[f.Name] = v
	}
	return out
}

// RegisterType declares a struct type. Every struct the fields reference,
// directly or as array elements, must already be registered.
func (d *Domain) RegisterType(name string, fields []Field) (*StructType, error) {
	if err := checkTypeName(name); err != nil {
		return nil, err
	}
	defs, err := d.registry.define([]declaration{{name: name, fields: fields}})
	if err != nil {
		return nil, err
	}
	Logger().Debug("type registered",
		zap.String("type", name),
		zap.Strings("dependencies", defs[0].deps))
	return &StructType{def: defs[0], domain: d}, nil
}

// RegisterRaw declares a struct type from any field form ParseFields
// accepts.
func (d *Domain) RegisterRaw(name string, raw any) (*StructType, error) {
	fields, err := ParseFields(raw)
	if err != nil {
		return nil, err
	}
	return d.RegisterType(name, fields)
}

// RegisterTypes declares a batch of struct types that may reference each
// other in any order. The batch is registered dependencies first; if any
// declaration fails, none is registered.
func (d *Domain) RegisterTypes(defs map[string][]Field) ([]*StructType, error) {
	names := sortedKeys(defs)
	for _, name := range names {
		if err := checkTypeName(name); err != nil {
			return nil, err
		}
	}

	order, err := d.orderTypes(defs)
	if err != nil {
		return nil, err
	}
	Logger().Debug("batch order", zap.Strings("types", order))

	decls := make([]declaration, 0, len(order))
	for _, name := range order {
		decls = append(decls, declaration{name: name, fields: defs[name]})
	}
	compiled, err := d.registry.define(decls)
	if err != nil {
		return nil, err
	}

	out := make([]*StructType, 0, len(compiled))
	for _, def := range compiled {
		out = append(out, &StructType{def: def, domain: d})
	}
	return out, nil
}

// orderTypes sorts a batch so that every type follows the types it
// references. References must resolve inside the batch or to a type
// already registered.
func (d *Domain) orderTypes(defs map[string][]Field) ([]string, error) {
	g := graph.New()
	for _, name := range sortedKeys(defs) {
		g.AddNode(name)
		for _, f := range defs[name] {
			ft, err := ParseFieldType(f.Type)
			if err != nil {
				return nil, definitionAt(name, "field %q: %s", f.Name, detailOf(err))
			}
			base := ft.Base()
			if base.Kind != KindStruct {
				continue
			}
			if _, inBatch := defs[base.Name]; inBatch {
				g.AddEdge(name, base.Name)
				continue
			}
			if _, ok := d.registry.Lookup(base.Name); !ok {
				return nil, definitionAt(name, "field %q references undefined type %q", f.Name, base.Name)
			}
		}
	}
	return g.Sort()
}

// Type returns the struct type registered under name
func (d *Domain) Type(name string) (*StructType, error) {
	def, ok := d.registry.Lookup(name)
	if !ok {
		return nil, errors.TypeNotFound(errors.PhaseValidate, name)
	}
	return &StructType{def: def, domain: d}, nil
}

// Types returns every registered struct type in registration order
func (d *Domain) Types() []*StructType {
	names := d.registry.Names()
	out := make([]*StructType, 0, len(names))
	for _, name := range names {
		if def, ok := d.registry.Lookup(name); ok {
			out = append(out, &StructType{def: def, domain: d})
		}
	}
	return out
}

// ListTypes returns the field declarations of every registered struct type
func (d *Domain) ListTypes() map[string][]Field {
	out := make(map[string][]Field, d.registry.Len())
	for _, t := range d.Types() {
		out[t.Name()] = t.Fields()
	}
	return out
}

// ToDomainDefinition returns ListTypes plus the EIP712Domain declaration
func (d *Domain) ToDomainDefinition() map[string][]Field {
	out := d.ListTypes()
	out[DomainTypeName] = d.def.Fields()
	return out
}

func checkTypeName(name string) error {
	switch {
	case name == "":
		return errors.Definition("type name must not be empty")
	case name == DomainTypeName:
		return errors.Definition("type name %q is reserved", name)
	case primitive.IsAtomic(name):
		return errors.Definition("type name %q collides with an atomic type", name)
	case !isIdentifier(name):
		return errors.Definition("invalid type name %q", name)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
