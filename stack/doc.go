// Package stack provides the byte stack every cross-boundary value travels
// through, and the argument marshalling built on it.
//
// A value is pushed by encoding it, reversing the bytes, and pushing them one
// at a time. The receiver pops the returned count and decodes. Any ByteStack
// works: the Local stack here, the per-call host stack in the engine, or a
// remote stack that forwards each byte into the guest.
package stack
