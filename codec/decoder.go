package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/wippyai/wasm-ledger/errors"
)

// MaxStringSize bounds decoded string lengths (1 MB).
const MaxStringSize = 1 << 20

// Decoder reads encoded values from a byte slice.
type Decoder struct {
	data []byte
	off  int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

func (d *Decoder) take(typeName string, n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, errors.Truncated(typeName, n, d.Remaining())
	}
	p := d.data[d.off : d.off+n]
	d.off += n
	return p, nil
}

func (d *Decoder) Byte() (byte, error) {
	p, err := d.take("u8", 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// Tag reads a union discriminant and checks it against the variant count.
func (d *Decoder) Tag(typeName string, variants int) (byte, error) {
	p, err := d.take(typeName, 1)
	if err != nil {
		return 0, err
	}
	if int(p[0]) >= variants {
		return 0, errors.InvalidDiscriminant(typeName, p[0], variants)
	}
	return p[0], nil
}

func (d *Decoder) U32() (uint32, error) {
	p, err := d.take("u32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

// Compact reads a compact integer and rejects non-minimal encodings.
func (d *Decoder) Compact() (uint64, error) {
	head, err := d.take("compact", 1)
	if err != nil {
		return 0, err
	}
	switch head[0] & 0b11 {
	case 0b00:
		return uint64(head[0] >> 2), nil
	case 0b01:
		rest, err := d.take("compact", 1)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint16([]byte{head[0], rest[0]}) >> 2)
		if v < compactSingleMax {
			return 0, errors.NonCanonical(v)
		}
		return v, nil
	case 0b10:
		rest, err := d.take("compact", 3)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint32([]byte{head[0], rest[0], rest[1], rest[2]}) >> 2)
		if v < compactTwoMax {
			return 0, errors.NonCanonical(v)
		}
		return v, nil
	default:
		n := int(head[0]>>2) + 4
		if n > 8 {
			return 0, errors.Overflow(errors.PhaseDecode, n, "compact")
		}
		p, err := d.take("compact", n)
		if err != nil {
			return 0, err
		}
		var v uint64
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(p[i])
		}
		if p[n-1] == 0 || v < compactFourMax {
			return 0, errors.NonCanonical(v)
		}
		return v, nil
	}
}

// String reads a compact length prefix and that many UTF-8 bytes.
func (d *Decoder) String() (string, error) {
	n, err := d.Compact()
	if err != nil {
		return "", err
	}
	if n > MaxStringSize {
		return "", errors.Overflow(errors.PhaseDecode, n, "string")
	}
	p, err := d.take("string", int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", errors.InvalidUTF8(p)
	}
	return string(p), nil
}

// Finish fails if any bytes remain unread.
func (d *Decoder) Finish(typeName string) error {
	if n := d.Remaining(); n > 0 {
		return errors.TrailingBytes(typeName, n)
	}
	return nil
}
