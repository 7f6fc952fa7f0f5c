package contract

import (
	"github.com/wippyai/wasm-ledger/linker"
	"github.com/wippyai/wasm-ledger/wasm"
)

// Guest memory layout. The local stack occupies the first half page, the
// query result buffer follows it, and the name buffer fills the second page.
const (
	MemoryPages = 2
	StackSize   = 32768
	ResultBuf   = 32768
	NameBuf     = 65536
)

// Type indices.
const (
	typeI32Void uint32 = iota // (i32) -> ()
	typeVoidI32               // () -> i32
	typeI32I32                // (i32) -> i32
)

// Function indices. Imports come first.
const (
	fnHostPush uint32 = iota
	fnHostPop
	fnExecuteInstruction
	fnExecuteQuery
	fnPush
	fnPop
	fnExecute
)

// Locals of execute: the size parameter, a cursor and a scratch value.
const (
	localSize uint32 = iota
	localCursor
	localScratch
)

const sp = 0 // global index of the stack pointer

type guest struct {
	m *wasm.Module
}

// newGuest returns a module with the host imports, memory, and the guest-local
// stack exported as push/pop. Callers add execute.
func newGuest() *guest {
	i32 := []wasm.ValType{wasm.ValI32}
	m := &wasm.Module{
		Types: []wasm.FuncType{
			typeI32Void: {Params: i32},
			typeVoidI32: {Results: i32},
			typeI32I32:  {Params: i32, Results: i32},
		},
		Imports: []wasm.Import{
			{Module: linker.ModuleStack, Name: linker.FuncPush, TypeIdx: typeI32Void},
			{Module: linker.ModuleStack, Name: linker.FuncPop, TypeIdx: typeVoidI32},
			{Module: linker.ModuleLedger, Name: linker.FuncExecuteInstruction, TypeIdx: typeI32Void},
			{Module: linker.ModuleLedger, Name: linker.FuncExecuteQuery, TypeIdx: typeI32I32},
		},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: MemoryPages}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32, Mutable: true}, Init: wasm.ConstI32(0)},
		},
		Exports: []wasm.Export{
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
			{Name: linker.ExportPush, Kind: wasm.KindFunc, Idx: fnPush},
			{Name: linker.ExportPop, Kind: wasm.KindFunc, Idx: fnPop},
		},
	}

	var push wasm.Code
	push.GlobalGet(sp).I32Const(StackSize).Op(wasm.OpI32GeU).
		If().Op(wasm.OpUnreachable).End().
		GlobalGet(sp).LocalGet(0).I32Store8(0).
		GlobalGet(sp).I32Const(1).Op(wasm.OpI32Add).GlobalSet(sp).
		End()

	var pop wasm.Code
	pop.GlobalGet(sp).Op(wasm.OpI32Eqz).
		If().Op(wasm.OpUnreachable).End().
		GlobalGet(sp).I32Const(1).Op(wasm.OpI32Sub).GlobalSet(sp).
		GlobalGet(sp).I32Load8U(0).
		End()

	m.Funcs = append(m.Funcs, typeI32Void, typeVoidI32)
	m.Code = append(m.Code, wasm.FuncBody{Code: push.Bytes()}, wasm.FuncBody{Code: pop.Bytes()})
	return &guest{m: m}
}

// execute installs body as the exported entry point. The body must end with End.
func (g *guest) execute(body *wasm.Code) *guest {
	g.m.Funcs = append(g.m.Funcs, typeI32Void)
	g.m.Code = append(g.m.Code, wasm.FuncBody{
		Locals: []wasm.LocalEntry{{Count: 2, ValType: wasm.ValI32}},
		Code:   body.Bytes(),
	})
	g.m.Exports = append(g.m.Exports, wasm.Export{
		Name: linker.ExportExecute, Kind: wasm.KindFunc, Idx: fnExecute,
	})
	return g
}

func (g *guest) encode() []byte {
	return g.m.Encode()
}

// popInto pops count bytes with fn, storing them from base upward in pop order.
func popInto(c *wasm.Code, fn, base, count uint32) {
	c.I32Const(0).LocalSet(localCursor).
		Block().Loop().
		LocalGet(localCursor).LocalGet(count).Op(wasm.OpI32GeU).BrIf(1).
		LocalGet(localCursor).Call(fn).I32Store8(base).
		LocalGet(localCursor).I32Const(1).Op(wasm.OpI32Add).LocalSet(localCursor).
		Br(0).
		End().End()
}

// pushReversed pushes count bytes starting at base with fn, last byte first.
func pushReversed(c *wasm.Code, fn, base, count uint32) {
	c.LocalGet(count).LocalSet(localCursor).
		Block().Loop().
		LocalGet(localCursor).Op(wasm.OpI32Eqz).BrIf(1).
		LocalGet(localCursor).I32Const(1).Op(wasm.OpI32Sub).LocalSet(localCursor).
		LocalGet(localCursor).I32Load8U(base).Call(fn).
		Br(0).
		End().End()
}

// pushConst pushes literal bytes to the host stack in the given order.
func pushConst(c *wasm.Code, bytes ...byte) {
	for _, b := range bytes {
		c.I32Const(int32(b)).Call(fnHostPush)
	}
}

// trapUnless traps when the i32 on top of the operand stack is zero.
func trapUnless(c *wasm.Code) {
	c.Op(wasm.OpI32Eqz).If().Op(wasm.OpUnreachable).End()
}

// receiveName moves the invoking account name from the local stack into NameBuf.
func receiveName(c *wasm.Code) {
	popInto(c, fnPop, NameBuf, localSize)
}

// sendName pushes the encoded name in NameBuf to the host stack.
func sendName(c *wasm.Code) {
	pushReversed(c, fnHostPush, NameBuf, localSize)
}

// amountBytes returns amount little-endian, reversed for pushing.
func amountBytes(amount uint32) []byte {
	return []byte{byte(amount >> 24), byte(amount >> 16), byte(amount >> 8), byte(amount)}
}
