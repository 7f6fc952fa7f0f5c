package model

import (
	"github.com/wippyai/wasm-ledger/codec"
)

// AccountName identifies an account. Names are unique within a WSV.
type AccountName string

func (n AccountName) EncodeTo(e *codec.Encoder) { e.String(string(n)) }

func DecodeAccountName(d *codec.Decoder) (AccountName, error) {
	s, err := d.String()
	return AccountName(s), err
}

// Account is a ledger record.
type Account struct {
	Name    AccountName `cbor:"name"`
	Balance uint32      `cbor:"balance"`
}

func (a Account) EncodeTo(e *codec.Encoder) {
	a.Name.EncodeTo(e)
	e.U32(a.Balance)
}

func DecodeAccount(d *codec.Decoder) (Account, error) {
	name, err := DecodeAccountName(d)
	if err != nil {
		return Account{}, err
	}
	balance, err := d.U32()
	if err != nil {
		return Account{}, err
	}
	return Account{Name: name, Balance: balance}, nil
}
