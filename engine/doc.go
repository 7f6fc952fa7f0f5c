// Package engine runs guest modules on wazero.
//
// # Architecture
//
//	Engine    - owns a wazero runtime with the host function table linked in,
//	            and a checksum-keyed cache of compiled guests
//	Module    - a compiled guest that exports execute, push and pop
//	Instance  - one fresh instantiation of a Module
//
// # Execution Flow
//
//  1. Engine.LoadModule() compiles and validates the guest binary
//  2. Engine.Execute() instantiates the Module anonymously
//  3. the account name is pushed onto the guest stack through RemoteStack
//  4. execute(size) runs; host calls pop and push the per-call host stack
//     and apply instructions or answer queries on the Ledger
//
// Per-call state travels in the context, so concurrent Execute calls share
// nothing but the Ledger.
//
// # Failures
//
// A guest without the required exports fails at load with MissingExport.
// A trap, a failed host call, or an elapsed ExecutionTimeout fails Execute
// with GuestTrap; the first host error, or the context error, is its cause.
package engine
