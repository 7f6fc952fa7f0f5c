// Package ledger runs sandboxed WebAssembly guests against an account ledger.
//
// A Peer holds the world state view (package wsv) and an execution engine
// (package engine). Transactions either apply one instruction directly or
// run a guest module on behalf of an account:
//
//	peer, err := ledger.New(ctx, []model.Account{{Name: "alice", Balance: 5}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer peer.Close(ctx)
//
//	tx := ledger.WithGuestModule("balance_keeper.wasm", "alice")
//	if err := peer.Execute(ctx, tx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Packages
//
//	ledger/
//	├── codec/      compact binary encoding of ABI values
//	├── model/      accounts, instructions, queries
//	├── stack/      byte stacks and argument marshalling
//	├── wasm/       core module encoder
//	├── contract/   guest modules assembled in Go
//	├── linker/     host function table and guest validation
//	├── engine/     wazero execution host
//	├── wsv/        world state view and its stores
//	├── client/     transaction submission
//	├── config/     TOML configuration
//	└── errors/     structured error types
//
// # Guest ABI
//
// Values cross the sandbox on byte stacks. A sender encodes a value, pushes
// the bytes in reverse and passes the byte count. The receiver pops that
// many bytes, which come out in encoded order, and decodes them. Guests
// export execute(size), push(byte) and pop() and may import only
// stack.push, stack.pop, ledger.execute_instruction and ledger.execute_query.
package ledger
