// Package contract assembles guest modules in Go.
//
// Every guest shares a prelude: the four host imports, two pages of linear
// memory, and a byte stack in the first half page exported as push and pop.
// The host seeds that stack with the invoking account's name and calls
// execute with its size.
//
// BalanceKeeper is the reference contract. The remaining guests exercise
// failure paths: traps, malformed instructions, stack underflow, missing
// exports and foreign imports.
package contract
