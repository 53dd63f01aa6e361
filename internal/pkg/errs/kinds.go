package errs

import (
	"errors"
	"strings"
)

// Kind classifies a failure by how callers are expected to react to it.
type Kind int

const (
	// KindFatal is unexpected and surfaced generically.
	KindFatal Kind = iota
	// KindValidation blocks progress and carries field-level details.
	KindValidation
	// KindConflict means the server rejected the request because state changed underneath it.
	KindConflict
	// KindDependency is a failed best-effort side effect; logged, never blocking.
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "fatal"
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind   Kind
	Fields []FieldError
	err    error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.err.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return e.err.Error() + " (" + strings.Join(msgs, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.err
}

func newKind(kind Kind, err error, fields []FieldError) error {
	if err == nil {
		err = New(kind.String() + " error")
	}
	return &Error{Kind: kind, Fields: fields, err: err}
}

func Validation(err error, fields ...FieldError) error {
	return newKind(KindValidation, err, fields)
}

func Conflict(err error) error {
	return newKind(KindConflict, err, nil)
}

func Dependency(err error) error {
	return newKind(KindDependency, err, nil)
}

func Fatal(err error) error {
	return newKind(KindFatal, err, nil)
}

// KindOf returns the outermost classification in the chain, KindFatal when none is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
func IsDependency(err error) bool { return err != nil && KindOf(err) == KindDependency }

// FieldsOf collects field details from every classified error in the chain.
func FieldsOf(err error) []FieldError {
	var out []FieldError
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		out = append(out, e.Fields...)
		err = e.err
	}
	return out
}

// FieldErrors accumulates validation failures before they are turned into a single error.
type FieldErrors []FieldError

func (f *FieldErrors) Add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f FieldErrors) Empty() bool { return len(f) == 0 }

// Err returns nil when nothing was recorded.
func (f FieldErrors) Err(cause error) error {
	if len(f) == 0 {
		return nil
	}
	return Validation(cause, f...)
}
