package codec

import "fmt"

// Encodable is a value that can write itself to an Encoder.
type Encodable interface {
	EncodeTo(e *Encoder)
}

// DecodeFunc reads one T from a Decoder.
type DecodeFunc[T any] func(d *Decoder) (T, error)

// Marshal encodes v into a fresh byte slice.
func Marshal(v Encodable) []byte {
	e := NewEncoder()
	v.EncodeTo(e)
	return e.Bytes()
}

// Unmarshal decodes exactly one T from data. Trailing bytes are an error.
func Unmarshal[T any](data []byte, decode DecodeFunc[T]) (T, error) {
	d := NewDecoder(data)
	v, err := decode(d)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := d.Finish(fmt.Sprintf("%T", v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// String is a string that encodes with a compact length prefix.
type String string

func (s String) EncodeTo(e *Encoder) { e.String(string(s)) }

func DecodeString(d *Decoder) (String, error) {
	s, err := d.String()
	return String(s), err
}

// U32 is a uint32 that encodes as four little-endian bytes.
type U32 uint32

func (v U32) EncodeTo(e *Encoder) { e.U32(uint32(v)) }

func DecodeU32(d *Decoder) (U32, error) {
	v, err := d.U32()
	return U32(v), err
}

// Variant is one arm of a tagged union. Its tag is its index in the Union.
type Variant[T any] struct {
	Name   string
	Decode DecodeFunc[T]
}

// Union decodes a tag-prefixed value by dispatching on the tag.
// Tags are assigned in declaration order starting at zero.
type Union[T any] struct {
	Name     string
	Variants []Variant[T]
}

func (u Union[T]) Decode(d *Decoder) (T, error) {
	tag, err := d.Tag(u.Name, len(u.Variants))
	if err != nil {
		var zero T
		return zero, err
	}
	return u.Variants[tag].Decode(d)
}
