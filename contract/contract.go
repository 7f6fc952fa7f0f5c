package contract

import (
	"github.com/wippyai/wasm-ledger/linker"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/wasm"
)

// Threshold is the balance at which BalanceKeeper switches from minting to burning.
const Threshold = 10

// BalanceKeeper queries the invoking account's balance, then mints 1 if it
// is below Threshold and burns 1 otherwise.
func BalanceKeeper() []byte {
	var c wasm.Code
	receiveName(&c)

	// GetBalance(name)
	sendName(&c)
	pushConst(&c, model.TagGetBalance)
	c.LocalGet(localSize).I32Const(1).Op(wasm.OpI32Add).
		Call(fnExecuteQuery).LocalSet(localScratch)

	// expect Balance(u32): 5 bytes, tag 0
	c.LocalGet(localScratch).I32Const(5).Op(wasm.OpI32Eq)
	trapUnless(&c)
	popInto(&c, fnHostPop, ResultBuf, localScratch)
	c.I32Const(0).I32Load8U(ResultBuf).Op(wasm.OpI32Eqz)
	trapUnless(&c)
	c.I32Const(0).I32Load(ResultBuf + 1).LocalSet(localScratch)

	// Mint(1, name) or Burn(1, name); the comparison result is the tag
	sendName(&c)
	pushConst(&c, amountBytes(1)...)
	c.LocalGet(localScratch).I32Const(Threshold).Op(wasm.OpI32GeU).Call(fnHostPush)
	c.LocalGet(localSize).I32Const(5).Op(wasm.OpI32Add).Call(fnExecuteInstruction)

	c.End()
	return newGuest().execute(&c).encode()
}

// Minter mints amount to the invoking account.
func Minter(amount uint32) []byte {
	var c wasm.Code
	mintToCaller(&c, amount)
	c.End()
	return newGuest().execute(&c).encode()
}

// MintThenTrap mints amount to the invoking account and then traps.
// The mint stays applied.
func MintThenTrap(amount uint32) []byte {
	var c wasm.Code
	mintToCaller(&c, amount)
	c.Op(wasm.OpUnreachable).End()
	return newGuest().execute(&c).encode()
}

func mintToCaller(c *wasm.Code, amount uint32) {
	receiveName(c)
	sendName(c)
	pushConst(c, amountBytes(amount)...)
	pushConst(c, model.TagMint)
	c.LocalGet(localSize).I32Const(5).Op(wasm.OpI32Add).Call(fnExecuteInstruction)
}

// Idle exports the stack and an execute that leaves its argument in place.
func Idle() []byte {
	var c wasm.Code
	c.End()
	return newGuest().execute(&c).encode()
}

// Trap traps as soon as execute is entered.
func Trap() []byte {
	var c wasm.Code
	c.Op(wasm.OpUnreachable).End()
	return newGuest().execute(&c).encode()
}

// Spin never returns from execute.
func Spin() []byte {
	var c wasm.Code
	c.Loop().Br(0).End().End()
	return newGuest().execute(&c).encode()
}

// BadInstruction hands the host a one-byte instruction with an unknown tag.
func BadInstruction() []byte {
	var c wasm.Code
	receiveName(&c)
	pushConst(&c, 7)
	c.I32Const(1).Call(fnExecuteInstruction).End()
	return newGuest().execute(&c).encode()
}

// Oversized claims a 0xFFFFFFFF-byte instruction on an empty host stack.
func Oversized() []byte {
	var c wasm.Code
	c.I32Const(-1).Call(fnExecuteInstruction).End()
	return newGuest().execute(&c).encode()
}

// OversizedQuery claims a 0xFFFFFFFF-byte query on an empty host stack.
func OversizedQuery() []byte {
	var c wasm.Code
	c.I32Const(-1).Call(fnExecuteQuery).Op(wasm.OpDrop).End()
	return newGuest().execute(&c).encode()
}

// Greedy pops more bytes from the host stack than were pushed.
func Greedy() []byte {
	var c wasm.Code
	c.Call(fnHostPop).Op(wasm.OpDrop).End()
	return newGuest().execute(&c).encode()
}

// WithoutExecute exports push and pop but no entry point.
func WithoutExecute() []byte {
	return newGuest().encode()
}

// ForeignImport is a complete guest that additionally imports env.abort.
func ForeignImport() []byte {
	g := newGuest()
	g.m.Imports = append(g.m.Imports, wasm.Import{Module: "env", Name: "abort", TypeIdx: typeI32Void})
	// the extra import shifts every defined function index by one
	for i := range g.m.Exports {
		if g.m.Exports[i].Kind == wasm.KindFunc {
			g.m.Exports[i].Idx++
		}
	}
	var c wasm.Code
	c.End()
	g.m.Funcs = append(g.m.Funcs, typeI32Void)
	g.m.Code = append(g.m.Code, wasm.FuncBody{Code: c.Bytes()})
	g.m.Exports = append(g.m.Exports, wasm.Export{Name: linker.ExportExecute, Kind: wasm.KindFunc, Idx: fnExecute + 1})
	return g.encode()
}

// Catalog lists the built-in guests by name.
var Catalog = map[string]func() []byte{
	"balance-keeper":  BalanceKeeper,
	"idle":            Idle,
	"trap":            Trap,
	"spin":            Spin,
	"bad-instruction": BadInstruction,
	"greedy":          Greedy,
	"minter":          func() []byte { return Minter(1) },
}
