// Package archerr defines the validator's flat error taxonomy: a single
// concrete error type whose Kind classifies the failure and whose
// Cause, when present, carries a boxed inner error. This keeps the
// error type itself non-generic even though the validators it reports
// for are parameterized over key and value types.
package archerr

import "fmt"

// Kind enumerates the fatal validation failure classes the validator
// can report.
type Kind int

const (
	_ Kind = iota

	// Context-level failures.
	KindOutOfBounds
	KindUnaligned
	KindOverrun
	KindSubtreeOutOfRange
	KindDuplicateClaim
	KindRangePopOutOfOrder
	KindSharedTypeMismatch

	// B-tree map invariant failures.
	KindTooFewInnerNodeEntries
	KindTooFewLeafNodeEntries
	KindMismatchedInnerChildKey
	KindInnerNodeInLeafLevel
	KindInvalidLeafNodeDepth
	KindUnsortedLeafNodeEntries
	KindUnlinkedLeafNode
	KindUnsortedLeafNode
	KindLastLeafForwardPointerNotNull
	KindLengthMismatch

	// Element byte-check and composition failures.
	KindKeyCheckError
	KindValueCheckError
	KindFieldError
	KindContextError
)

func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindUnaligned:
		return "Unaligned"
	case KindOverrun:
		return "Overrun"
	case KindSubtreeOutOfRange:
		return "SubtreeOutOfRange"
	case KindDuplicateClaim:
		return "DuplicateClaim"
	case KindRangePopOutOfOrder:
		return "RangePopOutOfOrder"
	case KindSharedTypeMismatch:
		return "SharedTypeMismatch"
	case KindTooFewInnerNodeEntries:
		return "TooFewInnerNodeEntries"
	case KindTooFewLeafNodeEntries:
		return "TooFewLeafNodeEntries"
	case KindMismatchedInnerChildKey:
		return "MismatchedInnerChildKey"
	case KindInnerNodeInLeafLevel:
		return "InnerNodeInLeafLevel"
	case KindInvalidLeafNodeDepth:
		return "InvalidLeafNodeDepth"
	case KindUnsortedLeafNodeEntries:
		return "UnsortedLeafNodeEntries"
	case KindUnlinkedLeafNode:
		return "UnlinkedLeafNode"
	case KindUnsortedLeafNode:
		return "UnsortedLeafNode"
	case KindLastLeafForwardPointerNotNull:
		return "LastLeafForwardPointerNotNull"
	case KindLengthMismatch:
		return "LengthMismatch"
	case KindKeyCheckError:
		return "KeyCheckError"
	case KindValueCheckError:
		return "ValueCheckError"
	case KindFieldError:
		return "FieldError"
	case KindContextError:
		return "ContextError"
	default:
		return "Unknown"
	}
}

// Error is the single concrete error type produced anywhere in this
// module. Expected carries {expected, actual}-style context for the
// handful of Kinds that need it (InvalidLeafNodeDepth, LengthMismatch,
// TooFewInnerNodeEntries, TooFewLeafNodeEntries).
type Error struct {
	Kind     Kind
	Message  string
	Expected int
	Actual   int
	Cause    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, archerr.New(kind)) by comparing Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a bare Error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind with an inner cause.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// WithCounts builds an Error carrying expected/actual counts
// (InvalidLeafNodeDepth, LengthMismatch, TooFew*Entries).
func WithCounts(kind Kind, expected, actual int) *Error {
	return &Error{Kind: kind, Expected: expected, Actual: actual}
}

// FieldError wraps a field name around an inner check failure, so that
// composite byte-checkers can attribute the error to a specific struct
// field.
type FieldError struct {
	FieldName string
	Inner     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.FieldName, e.Inner)
}

func (e *FieldError) Unwrap() error {
	return e.Inner
}

// Field wraps cause as a FieldError attributed to fieldName.
func Field(fieldName string, cause error) *FieldError {
	return &FieldError{FieldName: fieldName, Inner: cause}
}

// ErrTruncated is returned by low-level decoders when a field would read
// past the end of the supplied byte slice.
var ErrTruncated = New(KindOutOfBounds)
