package codec

import (
	"encoding/binary"
	"math/bits"
)

// Compact mode boundaries.
const (
	compactSingleMax = 1 << 6
	compactTwoMax    = 1 << 14
	compactFourMax   = 1 << 30
)

// Encoder appends encoded values to a growing buffer.
// The zero value is ready to use.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 16)}
}

// Bytes returns the encoded bytes. The slice aliases the encoder buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) Byte(b byte) {
	e.buf = append(e.buf, b)
}

// Tag writes a one-byte union discriminant.
func (e *Encoder) Tag(tag byte) {
	e.buf = append(e.buf, tag)
}

// U32 writes v as four little-endian bytes.
func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// Compact writes v in the shortest compact form.
func (e *Encoder) Compact(v uint64) {
	switch {
	case v < compactSingleMax:
		e.buf = append(e.buf, byte(v<<2))
	case v < compactTwoMax:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(v<<2)|0b01)
	case v < compactFourMax:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v<<2)|0b10)
	default:
		n := (bits.Len64(v) + 7) / 8
		e.buf = append(e.buf, byte((n-4)<<2)|0b11)
		for i := 0; i < n; i++ {
			e.buf = append(e.buf, byte(v>>(8*i)))
		}
	}
}

// String writes a compact length prefix followed by the raw UTF-8 bytes.
func (e *Encoder) String(s string) {
	e.Compact(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// Raw appends p without a length prefix.
func (e *Encoder) Raw(p []byte) {
	e.buf = append(e.buf, p...)
}
