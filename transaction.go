package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wippyai/wasm-ledger/model"
)

// Transaction is a request to act on the ledger on behalf of an account.
type Transaction struct {
	ID      string
	Account model.AccountName
	Payload Payload
}

// Payload is what a transaction carries: one instruction, or a guest to run.
type Payload interface {
	Kind() string
	payload()
}

// InstructionPayload applies a single instruction directly.
type InstructionPayload struct {
	Instruction model.Instruction
}

func (InstructionPayload) Kind() string { return "instruction" }
func (InstructionPayload) payload()     {}

// GuestPayload runs a guest module. Code, when set, takes precedence over Path.
type GuestPayload struct {
	Path string
	Code []byte
}

func (GuestPayload) Kind() string { return "guest" }
func (GuestPayload) payload()     {}

func (p GuestPayload) String() string {
	if len(p.Code) > 0 {
		return fmt.Sprintf("guest(%d bytes)", len(p.Code))
	}
	return "guest(" + p.Path + ")"
}

// WithInstruction builds a transaction that applies instr.
func WithInstruction(instr model.Instruction, account model.AccountName) *Transaction {
	return newTransaction(account, InstructionPayload{Instruction: instr})
}

// WithGuestModule builds a transaction that runs the guest artifact at path.
func WithGuestModule(path string, account model.AccountName) *Transaction {
	return newTransaction(account, GuestPayload{Path: path})
}

// WithGuestCode builds a transaction that runs an in-memory guest binary.
func WithGuestCode(code []byte, account model.AccountName) *Transaction {
	return newTransaction(account, GuestPayload{Code: code})
}

func newTransaction(account model.AccountName, p Payload) *Transaction {
	return &Transaction{ID: uuid.NewString(), Account: account, Payload: p}
}
