package object

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure raised during evaluation unwraps to exactly one of these.
var (
	ErrUnboundIdentifier   = errors.New("unbound identifier")
	ErrDuplicateBinding    = errors.New("duplicate binding")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrArithArgMismatch    = errors.New("argument type mismatch")
	ErrArithUnsupported    = errors.New("arithmetic unsupported for this type")
	ErrCompArgMismatch     = errors.New("comparison argument type mismatch")
	ErrCompUnsupported     = errors.New("comparison unsupported for this type")
	ErrNonBooleanCondition = errors.New("condition did not evaluate to boolean")
	ErrNotAFunction        = errors.New("left-hand side of application is not a function")
	ErrUnknownOperator     = errors.New("unknown operator")
	ErrExpectedNumeric     = errors.New("expected numeric")
	ErrExpectedBoolean     = errors.New("expected boolean")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrCallDepthExceeded   = errors.New("call depth exceeded")
)

var kindNames = map[error]string{
	ErrUnboundIdentifier:   "UnboundIdentifier",
	ErrDuplicateBinding:    "DuplicateBinding",
	ErrArityMismatch:       "ArityMismatch",
	ErrArithArgMismatch:    "ArithArgMismatch",
	ErrArithUnsupported:    "ArithUnsupportedError",
	ErrCompArgMismatch:     "CompArgMismatch",
	ErrCompUnsupported:     "CompUnsupportedError",
	ErrNonBooleanCondition: "NonBooleanCondition",
	ErrNotAFunction:        "NotAFunction",
	ErrUnknownOperator:     "UnknownOperator",
	ErrExpectedNumeric:     "ExpectedNumeric",
	ErrExpectedBoolean:     "ExpectedBoolean",
	ErrDivisionByZero:      "DivisionByZero",
	ErrCallDepthExceeded:   "CallDepthExceeded",
}

// RuntimeError is a typed, terminal evaluation failure.
type RuntimeError struct {
	Kind    error
	Message string
	Node    string // rendered text of the offending expression, if known
}

func NewError(kind error, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Node != "" {
		msg += " in `" + e.Node + "`"
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Kind }

// WithNode attaches the rendered expression to err unless a more specific one is already set.
func WithNode(err error, node string) error {
	var re *RuntimeError
	if !errors.As(err, &re) || re.Node != "" {
		return err
	}
	annotated := *re
	annotated.Node = node
	return &annotated
}

// KindName returns the taxonomy name of err's kind, or "" if err is not an evaluation failure.
func KindName(err error) string {
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return ""
}
