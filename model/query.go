package model

import (
	"fmt"

	"github.com/wippyai/wasm-ledger/codec"
)

const (
	TagGetBalance byte = iota
)

const (
	TagBalance byte = iota
)

// Query is a read-only ledger request.
type Query interface {
	codec.Encodable
	Target() AccountName
	fmt.Stringer
	query()
}

// GetBalance asks for the balance of Account.
type GetBalance struct {
	Account AccountName
}

func (q GetBalance) EncodeTo(e *codec.Encoder) {
	e.Tag(TagGetBalance)
	q.Account.EncodeTo(e)
}

func (q GetBalance) Target() AccountName { return q.Account }
func (q GetBalance) String() string      { return fmt.Sprintf("GetBalance(%s)", q.Account) }
func (GetBalance) query()                {}

var queryUnion = codec.Union[Query]{
	Name: "Query",
	Variants: []codec.Variant[Query]{
		TagGetBalance: {Name: "GetBalance", Decode: func(d *codec.Decoder) (Query, error) {
			account, err := DecodeAccountName(d)
			if err != nil {
				return nil, err
			}
			return GetBalance{Account: account}, nil
		}},
	},
}

// DecodeQuery reads a tagged Query.
func DecodeQuery(d *codec.Decoder) (Query, error) {
	return queryUnion.Decode(d)
}

// QueryResult is the answer to a Query.
type QueryResult interface {
	codec.Encodable
	fmt.Stringer
	queryResult()
}

// Balance reports an account balance.
type Balance struct {
	Amount uint32
}

func (r Balance) EncodeTo(e *codec.Encoder) {
	e.Tag(TagBalance)
	e.U32(r.Amount)
}

func (r Balance) String() string { return fmt.Sprintf("Balance(%d)", r.Amount) }
func (Balance) queryResult()     {}

var queryResultUnion = codec.Union[QueryResult]{
	Name: "QueryResult",
	Variants: []codec.Variant[QueryResult]{
		TagBalance: {Name: "Balance", Decode: func(d *codec.Decoder) (QueryResult, error) {
			amount, err := d.U32()
			if err != nil {
				return nil, err
			}
			return Balance{Amount: amount}, nil
		}},
	},
}

// DecodeQueryResult reads a tagged QueryResult.
func DecodeQueryResult(d *codec.Decoder) (QueryResult, error) {
	return queryResultUnion.Decode(d)
}
