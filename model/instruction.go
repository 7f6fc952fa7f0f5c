package model

import (
	"fmt"

	"github.com/wippyai/wasm-ledger/codec"
)

// Instruction tags, in declaration order.
const (
	TagMint byte = iota
	TagBurn
)

// Instruction is a ledger-mutating command.
type Instruction interface {
	codec.Encodable
	Target() AccountName
	fmt.Stringer
	instruction()
}

// Mint increases the balance of Account by Amount.
type Mint struct {
	Amount  uint32
	Account AccountName
}

// Burn decreases the balance of Account by Amount.
type Burn struct {
	Amount  uint32
	Account AccountName
}

func (m Mint) EncodeTo(e *codec.Encoder) {
	e.Tag(TagMint)
	e.U32(m.Amount)
	m.Account.EncodeTo(e)
}

func (b Burn) EncodeTo(e *codec.Encoder) {
	e.Tag(TagBurn)
	e.U32(b.Amount)
	b.Account.EncodeTo(e)
}

func (m Mint) Target() AccountName { return m.Account }
func (b Burn) Target() AccountName { return b.Account }

func (m Mint) String() string { return fmt.Sprintf("Mint(%d, %s)", m.Amount, m.Account) }
func (b Burn) String() string { return fmt.Sprintf("Burn(%d, %s)", b.Amount, b.Account) }

func (Mint) instruction() {}
func (Burn) instruction() {}

var instructionUnion = codec.Union[Instruction]{
	Name: "Instruction",
	Variants: []codec.Variant[Instruction]{
		TagMint: {Name: "Mint", Decode: func(d *codec.Decoder) (Instruction, error) {
			amount, account, err := decodeAmountAccount(d)
			if err != nil {
				return nil, err
			}
			return Mint{Amount: amount, Account: account}, nil
		}},
		TagBurn: {Name: "Burn", Decode: func(d *codec.Decoder) (Instruction, error) {
			amount, account, err := decodeAmountAccount(d)
			if err != nil {
				return nil, err
			}
			return Burn{Amount: amount, Account: account}, nil
		}},
	},
}

// DecodeInstruction reads a tagged Instruction.
func DecodeInstruction(d *codec.Decoder) (Instruction, error) {
	return instructionUnion.Decode(d)
}

func decodeAmountAccount(d *codec.Decoder) (uint32, AccountName, error) {
	amount, err := d.U32()
	if err != nil {
		return 0, "", err
	}
	account, err := DecodeAccountName(d)
	if err != nil {
		return 0, "", err
	}
	return amount, account, nil
}
