// Package errors provides structured error types for the ledger host.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the decoded type name, the account involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLedger, errors.KindUnknownAccount).
//		Account("bob").
//		Detail("mint 5").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownAccount("bob")
//	err := errors.InvalidDiscriminant("Instruction", 7, 2)
//
// The sentinels ErrDecode, ErrStackUnderflow, ErrUnknownAccount,
// ErrMissingExport and ErrGuestTrap name the failure taxonomy and work with
// the standard errors.Is:
//
//	if errors.Is(err, errors.ErrUnknownAccount) { ... }
package errors
