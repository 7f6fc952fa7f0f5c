package stack

import (
	"slices"

	"github.com/wippyai/wasm-ledger/codec"
	"github.com/wippyai/wasm-ledger/errors"
)

// ByteStack is a LIFO channel of single bytes.
type ByteStack interface {
	Push(b byte) error
	Pop() (byte, error)
}

// Local is an in-process ByteStack. The zero value is unbounded.
type Local struct {
	name string
	data []byte
	cap  int
}

// NewLocal returns a Local labelled name for error messages.
// A capacity of zero or less means unbounded.
func NewLocal(name string, capacity int) *Local {
	return &Local{name: name, cap: capacity}
}

func (s *Local) Push(b byte) error {
	if s.cap > 0 && len(s.data) >= s.cap {
		return errors.StackOverflow(s.label(), s.cap)
	}
	s.data = append(s.data, b)
	return nil
}

func (s *Local) Pop() (byte, error) {
	n := len(s.data)
	if n == 0 {
		return 0, errors.StackUnderflow(s.label())
	}
	b := s.data[n-1]
	s.data = s.data[:n-1]
	return b, nil
}

func (s *Local) Len() int {
	return len(s.data)
}

// Reset empties the stack and keeps its storage.
func (s *Local) Reset() {
	s.data = s.data[:0]
}

func (s *Local) label() string {
	if s.name == "" {
		return "local"
	}
	return s.name
}

// PushArgument encodes v and pushes its bytes in reverse so that popping
// yields them in original order. It returns the number of bytes pushed.
func PushArgument(s ByteStack, v codec.Encodable) (uint32, error) {
	buf := codec.Marshal(v)
	slices.Reverse(buf)
	for _, b := range buf {
		if err := s.Push(b); err != nil {
			return 0, err
		}
	}
	return uint32(len(buf)), nil
}

// popChunk caps the initial buffer; size comes from the guest.
const popChunk = 64

// PopArgument pops exactly size bytes and decodes them as a T. The buffer
// grows with the bytes actually popped, never with size alone.
func PopArgument[T any](s ByteStack, size uint32, decode codec.DecodeFunc[T]) (T, error) {
	buf := make([]byte, 0, min(size, popChunk))
	for range size {
		b, err := s.Pop()
		if err != nil {
			var zero T
			return zero, err
		}
		buf = append(buf, b)
	}
	return codec.Unmarshal(buf, decode)
}
