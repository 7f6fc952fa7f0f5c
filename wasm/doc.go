// Package wasm encodes WebAssembly binary modules.
//
// It covers the core 1.0 subset needed to assemble guest contracts in Go:
// function types, function imports, one linear memory, globals, exports,
// function bodies and active data segments. Compilation and validation are
// left to the engine.
//
// # Encoding
//
//	m := &wasm.Module{
//	    Types:   []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}}},
//	    Funcs:   []uint32{0},
//	    Exports: []wasm.Export{{Name: "execute", Kind: wasm.KindFunc, Idx: 0}},
//	    Code:    []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
//	}
//	binary := m.Encode()
//
// # Instructions
//
// Code assembles function bodies:
//
//	var c wasm.Code
//	c.LocalGet(0).I32Const(1).Op(wasm.OpI32Add).Call(2).End()
//	body := wasm.FuncBody{Code: c.Bytes()}
package wasm
