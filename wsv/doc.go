// Package wsv holds the world state view, the ledger of accounts guests
// act upon.
//
// A WSV applies instructions and answers queries. Mint and Burn are
// checked: a Mint that would overflow u32 fails with Overflow, a Burn
// larger than the balance fails with InsufficientBalance, and either
// against an absent account fails with UnknownAccount. A failed
// instruction leaves the state unchanged.
//
// Records live in a Store. MapStore is the default; DBStore keeps them
// in any cometbft-db database, in-memory or on disk.
package wsv
