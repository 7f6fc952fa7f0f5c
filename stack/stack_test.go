package stack

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-ledger/codec"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
)

func TestLocal_LIFO(t *testing.T) {
	s := NewLocal("test", 0)
	for _, b := range []byte{1, 2, 3} {
		require.NoError(t, s.Push(b))
	}
	assert.Equal(t, 3, s.Len())

	for _, want := range []byte{3, 2, 1} {
		got, err := s.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := s.Pop()
	assert.ErrorIs(t, err, errors.ErrStackUnderflow)
}

func TestLocal_Capacity(t *testing.T) {
	s := NewLocal("bounded", 2)
	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	assert.ErrorIs(t, s.Push(3), errors.ErrStackOverflow)

	s.Reset()
	assert.Zero(t, s.Len())
	assert.NoError(t, s.Push(4))
}

func TestLocal_ZeroValue(t *testing.T) {
	var s Local
	require.NoError(t, s.Push(9))
	b, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, byte(9), b)
}

func TestPushArgument_Reverses(t *testing.T) {
	s := NewLocal("", 0)
	n, err := PushArgument(s, codec.U32(0x04030201))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), n)

	// the first encoded byte is on top
	b, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)
}

func TestArgument_Symmetry(t *testing.T) {
	values := []struct {
		name   string
		value  codec.Encodable
		decode func(ByteStack, uint32) (any, error)
	}{
		{"account name", model.AccountName("alice"), func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeAccountName)
		}},
		{"mint", model.Mint{Amount: 1, Account: "alice"}, func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeInstruction)
		}},
		{"burn", model.Burn{Amount: 1 << 31, Account: "bob"}, func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeInstruction)
		}},
		{"query", model.GetBalance{Account: "carol"}, func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeQuery)
		}},
		{"result", model.Balance{Amount: 42}, func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeQueryResult)
		}},
		{"account", model.Account{Name: "dave", Balance: 7}, func(s ByteStack, n uint32) (any, error) {
			return PopArgument(s, n, model.DecodeAccount)
		}},
	}

	for _, tt := range values {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLocal("", 0)
			n, err := PushArgument(s, tt.value)
			require.NoError(t, err)

			got, err := tt.decode(s, n)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
			assert.Zero(t, s.Len())
		})
	}
}

func TestPopArgument_Underflow(t *testing.T) {
	s := NewLocal("", 0)
	n, err := PushArgument(s, model.AccountName("alice"))
	require.NoError(t, err)

	_, err = PopArgument(s, n+1, model.DecodeAccountName)
	assert.ErrorIs(t, err, errors.ErrStackUnderflow)
}

func TestPopArgument_HugeSize(t *testing.T) {
	s := NewLocal("", 0)
	require.NoError(t, s.Push(1))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := PopArgument(s, math.MaxUint32, model.DecodeInstruction)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, errors.ErrStackUnderflow)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestPopArgument_InvalidInstruction(t *testing.T) {
	s := NewLocal("", 0)
	n, err := PushArgument(s, model.GetBalance{Account: "alice"})
	require.NoError(t, err)

	// query bytes with a bogus tag are neither Mint nor Burn
	require.NoError(t, s.Push(7))
	_, err = PopArgument(s, n+1, model.DecodeInstruction)
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestPushArgument_Overflow(t *testing.T) {
	s := NewLocal("tiny", 3)
	_, err := PushArgument(s, model.AccountName("alice"))
	assert.ErrorIs(t, err, errors.ErrStackOverflow)
}
