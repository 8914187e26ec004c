package compileerr

import (
	"errors"
	"fmt"
)

// Kind classifies a compile failure.
type Kind string

const (
	KindSchema      Kind = "SchemaError"
	KindContract    Kind = "ContractViolation"
	KindUniqueness  Kind = "UniquenessViolation"
	KindReferential Kind = "ReferentialError"
	KindPolicy      Kind = "PolicyViolation"
)

// Sentinel errors, one per Kind. Use errors.Is to test an error's class.
var (
	ErrSchema      = errors.New("schema error")
	ErrContract    = errors.New("contract violation")
	ErrUniqueness  = errors.New("uniqueness violation")
	ErrReferential = errors.New("referential error")
	ErrPolicy      = errors.New("policy violation")
)

// Error is a fatal compile error. Msg is user facing and is surfaced verbatim.
type Error struct {
	Kind Kind
	// Path locates the offending element, e.g. "affixes[2].runtime.trigger".
	Path string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinel(e.Kind) == target
}

func sentinel(k Kind) error {
	switch k {
	case KindSchema:
		return ErrSchema
	case KindContract:
		return ErrContract
	case KindUniqueness:
		return ErrUniqueness
	case KindReferential:
		return ErrReferential
	case KindPolicy:
		return ErrPolicy
	default:
		return nil
	}
}

func newf(k Kind, path, format string, args ...any) *Error {
	return &Error{Kind: k, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func Schema(path, format string, args ...any) *Error {
	return newf(KindSchema, path, format, args...)
}

func Contract(path, format string, args ...any) *Error {
	return newf(KindContract, path, format, args...)
}

func Uniqueness(path, format string, args ...any) *Error {
	return newf(KindUniqueness, path, format, args...)
}

func Referential(path, format string, args ...any) *Error {
	return newf(KindReferential, path, format, args...)
}

func Policy(path, format string, args ...any) *Error {
	return newf(KindPolicy, path, format, args...)
}

// KindOf returns the Kind of err, or "" when err is not a compile error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
