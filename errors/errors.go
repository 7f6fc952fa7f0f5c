package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode  Phase = "encode"  // Go value to bytes
	PhaseDecode  Phase = "decode"  // bytes to Go value
	PhaseStack   Phase = "stack"   // byte stack push/pop
	PhaseLedger  Phase = "ledger"  // WSV instruction/query application
	PhaseLoad    Phase = "load"    // guest artifact loading
	PhaseLinking Phase = "linking" // host function table
	PhaseRuntime Phase = "runtime" // guest execution
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated           Kind = "truncated"
	KindTrailingBytes       Kind = "trailing_bytes"
	KindInvalidVariant      Kind = "invalid_variant"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindNonCanonical        Kind = "non_canonical"
	KindOverflow            Kind = "overflow"
	KindStackUnderflow      Kind = "stack_underflow"
	KindStackOverflow       Kind = "stack_overflow"
	KindUnknownAccount      Kind = "unknown_account"
	KindDuplicateAccount    Kind = "duplicate_account"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindMissingExport       Kind = "missing_export"
	KindMissingImport       Kind = "missing_import"
	KindGuestTrap           Kind = "guest_trap"
	KindInvalidInput        Kind = "invalid_input"
	KindInvalidData         Kind = "invalid_data"
	KindNotInitialized      Kind = "not_initialized"
	KindRegistration        Kind = "registration"
	KindInstantiation       Kind = "instantiation"
)

// Sentinels for errors.Is. Empty fields match anything, so ErrDecode matches
// every decode-phase error regardless of its kind.
var (
	ErrDecode              = &Error{Phase: PhaseDecode}
	ErrStackUnderflow      = &Error{Kind: KindStackUnderflow}
	ErrStackOverflow       = &Error{Kind: KindStackOverflow}
	ErrUnknownAccount      = &Error{Kind: KindUnknownAccount}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance}
	ErrOverflow            = &Error{Kind: KindOverflow}
	ErrMissingExport       = &Error{Kind: KindMissingExport}
	ErrMissingImport       = &Error{Kind: KindMissingImport}
	ErrGuestTrap           = &Error{Kind: KindGuestTrap}
)

// Error is the structured error type used throughout the ledger host
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Type    string
	Account string
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(" decoding ")
		b.WriteString(e.Type)
	}

	if e.Account != "" {
		b.WriteString(" account ")
		b.WriteString(fmt.Sprintf("%q", e.Account))
	}

	if e.Detail != "" {
		b.WriteString(": ")
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
// Empty Phase or Kind in target act as wildcards.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" && t.Kind == "" {
		return false
	}
	return (t.Phase == "" || e.Phase == t.Phase) && (t.Kind == "" || e.Kind == t.Kind)
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

// Type sets the name of the type being decoded or encoded
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Account sets the account identity involved
func (b *Builder) Account(name string) *Builder {
	b.err.Account = name
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

// Decode package convenience constructors

// Truncated creates an error for input that ended before a value was complete
func Truncated(typeName string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Type:   typeName,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// TrailingBytes creates an error for bytes left over after a complete value
func TrailingBytes(typeName string, n int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingBytes,
		Type:   typeName,
		Detail: fmt.Sprintf("%d unread bytes", n),
		Value:  n,
	}
}

// InvalidDiscriminant creates an invalid discriminant error for tagged unions
func InvalidDiscriminant(typeName string, tag byte, variants int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidVariant,
		Type:   typeName,
		Detail: fmt.Sprintf("discriminant %d out of range (%d variants)", tag, variants),
		Value:  tag,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Type:   "string",
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// NonCanonical creates an error for a compact integer not in its shortest form
func NonCanonical(value uint64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNonCanonical,
		Type:   "compact",
		Detail: fmt.Sprintf("value %d not minimally encoded", value),
		Value:  value,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Stack convenience constructors

// StackUnderflow creates an error for a pop on an empty stack
func StackUnderflow(where string) *Error {
	return &Error{
		Phase:  PhaseStack,
		Kind:   KindStackUnderflow,
		Detail: fmt.Sprintf("pop from empty %s stack", where),
	}
}

// StackOverflow creates an error for a push beyond a stack's capacity
func StackOverflow(where string, capacity int) *Error {
	return &Error{
		Phase:  PhaseStack,
		Kind:   KindStackOverflow,
		Detail: fmt.Sprintf("%s stack full (capacity %d)", where, capacity),
		Value:  capacity,
	}
}

// Ledger convenience constructors

// UnknownAccount creates an error for an identity absent from the WSV
func UnknownAccount(name string) *Error {
	return &Error{
		Phase:   PhaseLedger,
		Kind:    KindUnknownAccount,
		Account: name,
	}
}

// DuplicateAccount creates an error for a repeated identity at genesis
func DuplicateAccount(name string) *Error {
	return &Error{
		Phase:   PhaseLedger,
		Kind:    KindDuplicateAccount,
		Account: name,
	}
}

// InsufficientBalance creates an error for a burn larger than the balance
func InsufficientBalance(name string, balance, amount uint32) *Error {
	return &Error{
		Phase:   PhaseLedger,
		Kind:    KindInsufficientBalance,
		Account: name,
		Detail:  fmt.Sprintf("burn %d from balance %d", amount, balance),
		Value:   amount,
	}
}

// Runtime package convenience constructors

// MissingExport creates an error for a guest lacking a required entry point
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("guest does not export %q", name),
		Value:  name,
	}
}

// MissingImport creates an error for a guest importing outside the host table
func MissingImport(module, name string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindMissingImport,
		Detail: fmt.Sprintf("no host function %s.%s", module, name),
		Value:  module + "." + name,
	}
}

// GuestTrap creates an error for a guest execution that aborted
func GuestTrap(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindGuestTrap,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for missing engine/module
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a host function registration error
func Registration(module, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s.%s", module, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
