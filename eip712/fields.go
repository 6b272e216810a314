package eip712

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/wippyai/typeddata/errors"
)

// Field is one member of a struct declaration in its wire form.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FieldList is an ordered field declaration. It unmarshals from the list
// form [{"name":"from","type":"Person"}, ...] or from the object shorthand
// {"from":"Person", ...}, keeping the key order of the document.
type FieldList []Field

// UnmarshalJSON implements json.Unmarshaler.
func (l *FieldList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.Definition("empty field declaration")
	}

	switch data[0] {
	case '[':
		var entries []map[string]any
		if err := json.Unmarshal(data, &entries); err != nil {
			return errors.Wrap(errors.PhaseDefine, errors.KindDefinition, err, "field list must hold {name, type} objects")
		}
		fields := make([]Field, 0, len(entries))
		for i, entry := range entries {
			f, err := fieldFromMap(i, entry)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		*l = fields
		return nil

	case '{':
		fields, err := decodeShorthand(data)
		if err != nil {
			return err
		}
		*l = fields
		return nil
	}
	return errors.Definition("field declaration must be a list or an object")
}

// decodeShorthand walks the object token by token so that fields come
// out in document order.
func decodeShorthand(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.PhaseDefine, errors.KindDefinition, err, "malformed field object")
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDefine, errors.KindDefinition, err, "malformed field object")
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.PhaseDefine, errors.KindDefinition, err, "malformed field object")
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
			return nil, errors.Definition("field %q: nested type definitions are not supported", name)
		}
		var typ string
		if err := json.Unmarshal(raw, &typ); err != nil {
			return nil, errors.Definition("field %q: type must be a string", name)
		}
		fields = append(fields, Field{Name: name, Type: typ})
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseDefine, errors.KindDefinition, err, "malformed field object")
	}
	return fields, nil
}

// ParseFields normalizes the accepted raw forms of a field declaration
// into an ordered field list. Go maps with more than one entry are
// rejected since their iteration order is undefined.
func ParseFields(raw any) ([]Field, error) {
	switch v := raw.(type) {
	case []Field:
		return append([]Field(nil), v...), nil
	case FieldList:
		return append([]Field(nil), v...), nil
	case []map[string]any:
		fields := make([]Field, 0, len(v))
		for i, entry := range v {
			f, err := fieldFromMap(i, entry)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		return fields, nil
	case []map[string]string:
		fields := make([]Field, 0, len(v))
		for i, entry := range v {
			f, err := fieldFromMap(i, map[string]any{"name": entry["name"], "type": entry["type"]})
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		return fields, nil
	case []any:
		fields := make([]Field, 0, len(v))
		for i, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Definition("field %d: expected {name, type} object, got %T", i, item)
			}
			f, err := fieldFromMap(i, entry)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		return fields, nil
	case json.RawMessage:
		var l FieldList
		if err := l.UnmarshalJSON(v); err != nil {
			return nil, err
		}
		return l, nil
	case []byte:
		return ParseFields(json.RawMessage(v))
	case map[string]string:
		if len(v) > 1 {
			return nil, errors.Definition("field map with %d entries has no defined order; use a list", len(v))
		}
		var fields []Field
		for name, typ := range v {
			fields = append(fields, Field{Name: name, Type: typ})
		}
		return fields, nil
	case map[string]any:
		if len(v) > 1 {
			return nil, errors.Definition("field map with %d entries has no defined order; use a list", len(v))
		}
		var fields []Field
		for name, typ := range v {
			s, ok := typ.(string)
			if !ok {
				return nil, errors.Definition("field %q: nested type definitions are not supported", name)
			}
			fields = append(fields, Field{Name: name, Type: s})
		}
		return fields, nil
	case nil:
		return nil, errors.Definition("missing field declaration")
	}
	return nil, errors.Definition("unsupported field declaration %T", raw)
}

func fieldFromMap(i int, entry map[string]any) (Field, error) {
	name, ok := entry["name"].(string)
	if !ok || name == "" {
		return Field{}, errors.Definition("field %d: missing name", i)
	}
	switch t := entry["type"].(type) {
	case string:
		if t == "" {
			return Field{}, errors.Definition("field %q: missing type", name)
		}
		return Field{Name: name, Type: t}, nil
	case map[string]any, []any:
		return Field{}, errors.Definition("field %q: nested type definitions are not supported", name)
	case nil:
		return Field{}, errors.Definition("field %q: missing type", name)
	default:
		return Field{}, errors.Definition("field %q: type must be a string, got %T", name, t)
	}
}
