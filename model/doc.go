// Package model defines the ledger values exchanged between host and guest:
// accounts, instructions, queries and query results.
//
// Instruction, Query and QueryResult are closed tagged unions. A variant's
// wire tag is its position in the union table, so new variants are appended.
//
//	Mint{Amount: 1, Account: "alice"}  -> 00 01000000 14 616c696365
//	GetBalance{Account: "alice"}       -> 00 14 616c696365
//	Balance{Amount: 5}                 -> 00 05000000
package model
