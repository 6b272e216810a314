package eip712

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wippyai/typeddata/errors"
)

// SignatureRequest is the JSON document wallets exchange: the type
// declarations, the primary type, the domain properties and the message.
type SignatureRequest struct {
	Types       map[string]FieldList `json:"types"`
	PrimaryType string               `json:"primaryType"`
	Domain      map[string]any       `json:"domain"`
	Message     map[string]any       `json:"message"`
}

// ParseSignatureRequest decodes a signature request. Numbers are kept as
// json.Number so 256-bit integers survive decoding.
func ParseSignatureRequest(data []byte) (*SignatureRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var req SignatureRequest
	if err := dec.Decode(&req); err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e
		}
		return nil, errors.Wrap(errors.PhaseParse, errors.KindDefinition, err, "decode signature request")
	}
	return &req, nil
}

// ParseOptions configures FromSignatureRequest
type ParseOptions struct {
	// StrictDomainType requires an EIP712Domain entry in types, when
	// present, to list exactly the domain properties given, in canonical
	// order.
	StrictDomainType bool
}

// DefaultParseOptions returns the default parse options
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		StrictDomainType: true,
	}
}

// FromSignatureRequest builds a domain holding every declared type and an
// instance of the primary type holding the message. Types may appear in
// any order; circular references are rejected with a *errors.CycleError.
//
// The checks are stricter than many wallet implementations: message keys
// that are not declared fields fail with a field_unknown error, and with
// DefaultParseOptions a declared EIP712Domain that does not match the
// present domain properties fails instead of being ignored. Pass a
// ParseOptions with StrictDomainType false to ignore the declaration.
func FromSignatureRequest(req *SignatureRequest, opts ParseOptions) (*Domain, *Struct, error) {
	if req == nil {
		return nil, nil, errors.New(errors.PhaseParse, errors.KindDefinition).
			Detail("nil signature request").
			Build()
	}

	domain, err := NewDomain(req.Domain)
	if err != nil {
		return nil, nil, err
	}

	if declared, ok := req.Types[DomainTypeName]; ok && opts.StrictDomainType {
		if err := checkDomainDeclaration(declared, domain.def.fields); err != nil {
			return nil, nil, err
		}
	}

	defs := make(map[string][]Field, len(req.Types))
	for name, fields := range req.Types {
		if name == DomainTypeName {
			continue
		}
		defs[name] = fields
	}
	types, err := domain.RegisterTypes(defs)
	if err != nil {
		return nil, nil, err
	}
	if ce := Logger().Check(zap.DebugLevel, "request types registered"); ce != nil {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.Name()
		}
		ce.Write(zap.Strings("postorder", names), zap.String("primaryType", req.PrimaryType))
	}

	if req.PrimaryType == "" || req.PrimaryType == DomainTypeName {
		return nil, nil, errors.New(errors.PhaseParse, errors.KindDefinition).
			Type(req.PrimaryType).
			Detail("primaryType must name a declared struct type").
			Build()
	}
	primary, err := domain.Type(req.PrimaryType)
	if err != nil {
		return nil, nil, errors.New(errors.PhaseParse, errors.KindDefinition).
			Type(req.PrimaryType).
			Detail("primaryType %q is not declared in types", req.PrimaryType).
			Build()
	}

	msg, err := primary.New(req.Message)
	if err != nil {
		return nil, nil, err
	}
	return domain, msg, nil
}

func checkDomainDeclaration(declared []Field, present []Field) error {
	mismatch := func() error {
		return errors.New(errors.PhaseParse, errors.KindDefinition).
			Type(DomainTypeName).
			Detail("declared %s does not match the domain properties %s",
				fragment(DomainTypeName, declared), fragment(DomainTypeName, present)).
			Build()
	}
	if len(declared) != len(present) {
		return mismatch()
	}
	for i := range declared {
		if declared[i] != present[i] {
			return mismatch()
		}
	}
	return nil
}

// ToSignatureRequest returns the request that reproduces this instance
// through FromSignatureRequest.
func (s *Struct) ToSignatureRequest() (*SignatureRequest, error) {
	msg, err := s.ToObject()
	if err != nil {
		return nil, err
	}
	d := s.typ.domain
	types := make(map[string]FieldList)
	for name, fields := range d.ToDomainDefinition() {
		types[name] = fields
	}
	return &SignatureRequest{
		Types:       types,
		PrimaryType: s.typ.def.name,
		Domain:      d.ToObject(),
		Message:     msg,
	}, nil
}
