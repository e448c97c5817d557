package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies application errors into the outcomes the boundary can
// act on. Kinds are definite business results, never retried.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is client-fixable input, keyed by field.
	KindValidation
	// KindBusinessRule is a well-formed request that policy forbids.
	KindBusinessRule
	// KindConflict is a state-machine transition not permitted from the
	// current status.
	KindConflict
	// KindForbidden means the actor is a party to the resource but acts
	// in the wrong role.
	KindForbidden
	// KindNotFound covers missing resources, including resources hidden
	// from actors who are not a party to them.
	KindNotFound
	// KindInfrastructure is an unexpected storage or dependency failure.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// NonFieldKey collects errors that concern the request as a whole rather
// than a single field.
const NonFieldKey = "non_field_errors"

// FieldErrors accumulates field-keyed messages across a validation pass.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) AddNonField(message string) {
	f.Add(NonFieldKey, message)
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

func (f FieldErrors) Any() bool {
	return len(f) > 0
}

// Error carries a kind, an optional field map and an optional wrapped
// cause. Handlers return these as plain error values; the HTTP layer
// inspects them with KindOf and FieldsOf.
type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
		}
		return strings.Join(parts, ", ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func ValidationField(field, message string) *Error {
	fields := FieldErrors{}
	fields.Add(field, message)
	return Validation(fields)
}

func BusinessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message, Fields: FieldErrors{NonFieldKey: {message}}}
}

func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Infrastructure(cause error) *Error {
	return &Error{Kind: KindInfrastructure, Message: "storage failure", Err: cause}
}

// KindOf extracts the kind from an error chain; unknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// FieldsOf extracts the field map from an error chain, if any.
func FieldsOf(err error) FieldErrors {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
