// Package errors provides structured error types for the typeddata module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, declared type, Go type of the
// offending value, and cause chain.
//
// The kinds map onto the failure classes callers branch on:
//
//	definition      unrecognized, duplicate or missing keys, bad type declarations
//	cycle           circular struct references in a batch of declarations
//	validation      a value fails its declared type (field_missing and
//	                field_unknown are validation errors too)
//	type_not_found  a type name is not registered in the domain
//	signer          the signing delegate is absent or failed
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindValidation).
//		Path("Mail", "from", "wallet").
//		Type("address").
//		Detail("expected 20 bytes, got 19").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing([]string{"Mail"}, "contents")
//	err := errors.TypeNotFound(errors.PhaseValidate, "Person")
//
// Match by category with the sentinels:
//
//	if errors.Is(err, typeddataerrors.ErrDefinition) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
