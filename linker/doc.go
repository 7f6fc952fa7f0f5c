// Package linker binds the host function table into a wazero runtime.
//
// A guest may import exactly four functions:
//
//	stack.push(i32)                     push a byte to the host-local stack
//	stack.pop() -> i32                  pop a byte from the host-local stack
//	ledger.execute_instruction(i32)     apply the Instruction of that many bytes
//	ledger.execute_query(i32) -> i32    answer the Query, push the result, return its size
//
// Each import calls one method of Capabilities. The host modules are
// instantiated once per runtime; per-call state is reached through the
// context passed to every method. A failing method aborts the guest.
//
// # Example
//
//	l := linker.New(runtime)
//	if err := l.Link(ctx, caps); err != nil { ... }
//	if err := linker.CheckImports(compiled); err != nil { ... }
package linker
