package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine   Phase = "define"   // type and domain registration
	PhaseResolve  Phase = "resolve"  // dependency ordering
	PhaseValidate Phase = "validate" // value validation
	PhaseEncode   Phase = "encode"   // encodeData / hashing
	PhaseSign     Phase = "sign"     // signer delegation
	PhaseVerify   Phase = "verify"   // signature recovery
	PhaseParse    Phase = "parse"    // signature request decoding
)

// Kind categorizes the error
type Kind string

const (
	KindDefinition   Kind = "definition"
	KindCycle        Kind = "cycle"
	KindValidation   Kind = "validation"
	KindFieldMissing Kind = "field_missing"
	KindFieldUnknown Kind = "field_unknown"
	KindTypeNotFound Kind = "type_not_found"
	KindSigner       Kind = "signer"
)

// Sentinels for errors.Is. A sentinel carries no phase and matches an
// error of its kind raised in any phase.
var (
	ErrDefinition   = &Error{Kind: KindDefinition}
	ErrCycle        = &Error{Kind: KindCycle}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrTypeNotFound = &Error{Kind: KindTypeNotFound}
	ErrSigner       = &Error{Kind: KindSigner}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Type != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Type != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", type ")
			b.WriteString(e.Type)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("type ")
			b.WriteString(e.Type)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must agree; the
// phase only matters when the target sets one. Missing and unknown field
// errors are validation errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindValidation && (e.Kind == KindFieldMissing || e.Kind == KindFieldUnknown)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name of the offending value
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Type sets the declared type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Definition creates a type or domain definition error
func Definition(detail string, args ...any) *Error {
	return New(PhaseDefine, KindDefinition).Detail(detail, args...).Build()
}

// Invalid creates a validation error for a value that does not satisfy
// its declared type
func Invalid(path []string, typ string, value any, detail string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindValidation,
		Path:   path,
		Type:   typ,
		GoType: typeName(value),
		Value:  value,
		Detail: detail,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// TypeNotFound creates an error for a type name that is not registered
// in the domain
func TypeNotFound(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeNotFound,
		Type:   name,
		Detail: fmt.Sprintf("type %q not recognized in this domain", name),
	}
}

// Signer creates a signer error
func Signer(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseSign,
		Kind:   KindSigner,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// CycleError is returned when struct types reference each other in a loop.
// Cycle lists the type names along the loop, starting and ending with the
// same name.
type CycleError struct {
	Cycle []string
}

// NewCycleError creates a cycle error from the traversal path
func NewCycleError(cycle []string) *CycleError {
	return &CycleError{Cycle: append([]string(nil), cycle...)}
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "[resolve] cycle: circular type reference"
	}
	return "[resolve] cycle: circular type reference " + strings.Join(e.Cycle, " -> ")
}

// Is reports whether target is a CycleError or the cycle sentinel
func (e *CycleError) Is(target error) bool {
	switch t := target.(type) {
	case *CycleError:
		return true
	case *Error:
		return t.Kind == KindCycle && (t.Phase == "" || t.Phase == PhaseResolve)
	}
	return false
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
