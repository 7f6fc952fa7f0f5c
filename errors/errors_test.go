package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseLedger,
				Kind:    KindInsufficientBalance,
				Account: "alice",
				Detail:  "burn 7 from balance 5",
			},
			contains: []string{"[ledger]", "insufficient_balance", `"alice"`, "burn 7"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindTruncated,
			},
			contains: []string{"[decode]", "truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRuntime,
				Kind:   KindGuestTrap,
				Detail: "execute",
				Cause:  errors.New("wasm error: unreachable"),
			},
			contains: []string{"[runtime]", "guest_trap", "execute", "caused by", "unreachable"},
		},
		{
			name:     "decode type",
			err:      InvalidDiscriminant("Instruction", 9, 2),
			contains: []string{"decoding Instruction", "discriminant 9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRuntime,
		Kind:  KindGuestTrap,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := UnknownAccount("bob")

	if !err.Is(&Error{Phase: PhaseLedger, Kind: KindUnknownAccount}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnknownAccount}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseLedger, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(&Error{}) {
		t.Error("Is should not match an empty target")
	}
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		name     string
	}{
		{Truncated("u32", 4, 1), ErrDecode, "truncated is decode"},
		{InvalidUTF8([]byte{0xff}), ErrDecode, "utf8 is decode"},
		{InvalidDiscriminant("Query", 3, 1), ErrDecode, "variant is decode"},
		{TrailingBytes("string", 2), ErrDecode, "trailing is decode"},
		{StackUnderflow("host"), ErrStackUnderflow, "underflow"},
		{StackOverflow("guest", 8), ErrStackOverflow, "overflow"},
		{UnknownAccount("x"), ErrUnknownAccount, "unknown account"},
		{InsufficientBalance("x", 1, 2), ErrInsufficientBalance, "insufficient"},
		{Overflow(PhaseLedger, 1, "u32"), ErrOverflow, "overflow"},
		{MissingExport("execute"), ErrMissingExport, "missing export"},
		{MissingImport("env", "abort"), ErrMissingImport, "missing import"},
		{GuestTrap("execute", nil), ErrGuestTrap, "trap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
		})
	}

	if errors.Is(UnknownAccount("x"), ErrDecode) {
		t.Error("ledger error must not match ErrDecode")
	}
}

func TestSentinels_ThroughTrap(t *testing.T) {
	err := GuestTrap("execute", UnknownAccount("carol"))

	if !errors.Is(err, ErrGuestTrap) {
		t.Error("trap should match ErrGuestTrap")
	}
	if !errors.Is(err, ErrUnknownAccount) {
		t.Error("trap should expose its host cause")
	}

	var target *Error
	if !errors.As(err, &target) || target.Kind != KindGuestTrap {
		t.Errorf("errors.As gave %v", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidVariant).
		Type("Instruction").
		Account("alice").
		Value(7).
		Cause(cause).
		Detail("tag %d of %d", 7, 2).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidVariant {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidVariant)
	}
	if err.Type != "Instruction" {
		t.Errorf("Type = %v, want Instruction", err.Type)
	}
	if err.Account != "alice" {
		t.Errorf("Account = %v, want alice", err.Account)
	}
	if err.Value != 7 {
		t.Errorf("Value = %v, want 7", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "tag 7 of 2" {
		t.Errorf("Detail = %v, want 'tag 7 of 2'", err.Detail)
	}
}
