package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode      Phase = "decode"      // binary to Module
	PhaseValidate    Phase = "validate"    // structural checks on a Module
	PhaseInstantiate Phase = "instantiate" // Module to Store
	PhaseRuntime     Phase = "runtime"     // value operations
	PhaseLoad        Phase = "load"        // reading input, reference engine
)

// Kind categorizes the error
type Kind string

const (
	KindNotWasm            Kind = "not_wasm"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindTruncated          Kind = "truncated"
	KindOverflow           Kind = "overflow"
	KindTagMismatch        Kind = "tag_mismatch"
	KindUnknownSection     Kind = "unknown_section"
	KindUnknownOpcode      Kind = "unknown_opcode"
	KindInvalidValueType   Kind = "invalid_value_type"
	KindInvalidData        Kind = "invalid_data"
	KindLengthMismatch     Kind = "length_mismatch"
	KindDuplicateSection   Kind = "duplicate_section"
	KindSectionOrder       Kind = "section_order"
	KindLimitExceeded      Kind = "limit_exceeded"
	KindUnsupported        Kind = "unsupported"
	KindMissingSection     Kind = "missing_section"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindTypeMismatch       Kind = "type_mismatch"
	KindInvalidInput       Kind = "invalid_input"
)

// NoOffset marks an error that has no position in the input.
const NoOffset = -1

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Got    string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Want != "" || e.Got != "" {
		b.WriteString(": ")
		switch {
		case e.Want != "" && e.Got != "":
			b.WriteString("want ")
			b.WriteString(e.Want)
			b.WriteString(", got ")
			b.WriteString(e.Got)
		case e.Want != "":
			b.WriteString("want ")
			b.WriteString(e.Want)
		default:
			b.WriteString("got ")
			b.WriteString(e.Got)
		}
	}

	if e.Detail != "" {
		if e.Want != "" || e.Got != "" {
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

// Is reports whether target matches this error.
// Two errors match when both Phase and Kind are equal.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithPath returns a copy of e with path segments prepended.
// Decoders use it to add the enclosing section or function as the error
// travels outward.
func (e *Error) WithPath(path ...string) *Error {
	c := *e
	c.Path = append(append([]string(nil), path...), e.Path...)
	return &c
}

// Sentinels for errors.Is. Only Phase and Kind take part in the comparison.
var (
	ErrNotWasm            = &Error{Phase: PhaseDecode, Kind: KindNotWasm, Offset: NoOffset}
	ErrUnsupportedVersion = &Error{Phase: PhaseDecode, Kind: KindUnsupportedVersion, Offset: NoOffset}
	ErrTruncated          = &Error{Phase: PhaseDecode, Kind: KindTruncated, Offset: NoOffset}
	ErrOverflow           = &Error{Phase: PhaseDecode, Kind: KindOverflow, Offset: NoOffset}
	ErrTagMismatch        = &Error{Phase: PhaseDecode, Kind: KindTagMismatch, Offset: NoOffset}
	ErrUnknownSection     = &Error{Phase: PhaseDecode, Kind: KindUnknownSection, Offset: NoOffset}
	ErrUnknownOpcode      = &Error{Phase: PhaseDecode, Kind: KindUnknownOpcode, Offset: NoOffset}
	ErrInvalidValueType   = &Error{Phase: PhaseDecode, Kind: KindInvalidValueType, Offset: NoOffset}
	ErrLengthMismatch     = &Error{Phase: PhaseDecode, Kind: KindLengthMismatch, Offset: NoOffset}
	ErrDuplicateSection   = &Error{Phase: PhaseDecode, Kind: KindDuplicateSection, Offset: NoOffset}
	ErrSectionOrder       = &Error{Phase: PhaseDecode, Kind: KindSectionOrder, Offset: NoOffset}
	ErrLimitExceeded      = &Error{Phase: PhaseDecode, Kind: KindLimitExceeded, Offset: NoOffset}
	ErrUnsupportedSection = &Error{Phase: PhaseDecode, Kind: KindUnsupported, Offset: NoOffset}

	ErrMissingSection      = &Error{Phase: PhaseInstantiate, Kind: KindMissingSection, Offset: NoOffset}
	ErrSectionLength       = &Error{Phase: PhaseInstantiate, Kind: KindLengthMismatch, Offset: NoOffset}
	ErrTypeIndexOutOfRange = &Error{Phase: PhaseInstantiate, Kind: KindOutOfBounds, Offset: NoOffset}

	ErrTypeMismatch = &Error{Phase: PhaseRuntime, Kind: KindTypeMismatch, Offset: NoOffset}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the location path, e.g. "code", "func 3"
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// At sets the absolute byte offset in the input
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// Want sets the expected value description
func (b *Builder) Want(s string) *Builder {
	b.err.Want = s
	return b
}

// Got sets the observed value description
func (b *Builder) Got(s string) *Builder {
	b.err.Got = s
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
	e := b.err
	return &e
}

// Convenience constructors for common error patterns

// Truncated creates an error for input that ended inside a primitive
func Truncated(offset int, what string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("%s needs %d bytes, %d remain", what, need, have),
	}
}

// Overflow creates an error for a LEB128 value that exceeds its width
func Overflow(offset int, what string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOverflow,
		Offset: offset,
		Detail: fmt.Sprintf("%s exceeds its encoding width", what),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Offset: NoOffset,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// TypeMismatch creates a value-tag mismatch error
func TypeMismatch(want, got string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTypeMismatch,
		Offset: NoOffset,
		Want:   want,
		Got:    got,
	}
}

// MissingSection creates an error for a section that instantiation needs
func MissingSection(section, neededBy string) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindMissingSection,
		Offset: NoOffset,
		Detail: fmt.Sprintf("%s section required by %s section", section, neededBy),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: NoOffset,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: NoOffset,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}
