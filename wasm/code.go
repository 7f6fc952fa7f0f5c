package wasm

import (
	"github.com/wippyai/wasm-ledger/wasm/internal/binary"
)

// Code assembles a function body instruction by instruction.
// Methods return the receiver so sequences read top to bottom.
type Code struct {
	buf []byte
}

// Bytes returns the assembled instructions.
func (c *Code) Bytes() []byte {
	return c.buf
}

// Op emits an instruction without immediates.
func (c *Code) Op(ops ...byte) *Code {
	c.buf = append(c.buf, ops...)
	return c
}

func (c *Code) I32Const(v int32) *Code {
	c.buf = append(c.buf, OpI32Const)
	c.buf = binary.AppendS32(c.buf, v)
	return c
}

func (c *Code) LocalGet(idx uint32) *Code  { return c.indexed(OpLocalGet, idx) }
func (c *Code) LocalSet(idx uint32) *Code  { return c.indexed(OpLocalSet, idx) }
func (c *Code) GlobalGet(idx uint32) *Code { return c.indexed(OpGlobalGet, idx) }
func (c *Code) GlobalSet(idx uint32) *Code { return c.indexed(OpGlobalSet, idx) }
func (c *Code) Call(fn uint32) *Code       { return c.indexed(OpCall, fn) }
func (c *Code) Br(depth uint32) *Code      { return c.indexed(OpBr, depth) }
func (c *Code) BrIf(depth uint32) *Code    { return c.indexed(OpBrIf, depth) }

// Block, Loop and If open void-typed structured blocks.
func (c *Code) Block() *Code { return c.Op(OpBlock, BlockVoid) }
func (c *Code) Loop() *Code  { return c.Op(OpLoop, BlockVoid) }
func (c *Code) If() *Code    { return c.Op(OpIf, BlockVoid) }
func (c *Code) End() *Code   { return c.Op(OpEnd) }

// I32Load8U loads one byte from the address on the stack plus offset.
func (c *Code) I32Load8U(offset uint32) *Code { return c.memory(OpI32Load8U, 0, offset) }

// I32Store8 stores the low byte of the value at address plus offset.
func (c *Code) I32Store8(offset uint32) *Code { return c.memory(OpI32Store8, 0, offset) }

// I32Load loads a little-endian i32. Unaligned addresses are allowed.
func (c *Code) I32Load(offset uint32) *Code { return c.memory(OpI32Load, 0, offset) }

func (c *Code) indexed(op byte, idx uint32) *Code {
	c.buf = append(c.buf, op)
	c.buf = binary.AppendU32(c.buf, idx)
	return c
}

func (c *Code) memory(op byte, align, offset uint32) *Code {
	c.buf = append(c.buf, op)
	c.buf = binary.AppendU32(c.buf, align)
	c.buf = binary.AppendU32(c.buf, offset)
	return c
}

// ConstI32 returns the constant expression `i32.const v; end`.
func ConstI32(v int32) []byte {
	return new(Code).I32Const(v).End().Bytes()
}
