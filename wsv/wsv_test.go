package wsv

import (
	"math"
	"strings"
	"sync"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-ledger/codec"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
)

func stores() map[string]func() Store {
	return map[string]func() Store{
		"map":   func() Store { return NewMapStore() },
		"memdb": func() Store { return NewDBStore(dbm.NewMemDB()) },
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		balance uint32
		instr   model.Instruction
		want    uint32
		err     error
	}{
		{name: "mint", balance: 5, instr: model.Mint{Amount: 1, Account: "alice"}, want: 6},
		{name: "burn", balance: 100, instr: model.Burn{Amount: 1, Account: "alice"}, want: 99},
		{name: "burn to zero", balance: 7, instr: model.Burn{Amount: 7, Account: "alice"}, want: 0},
		{name: "mint to max", balance: math.MaxUint32 - 1, instr: model.Mint{Amount: 1, Account: "alice"}, want: math.MaxUint32},
		{name: "mint overflow", balance: math.MaxUint32, instr: model.Mint{Amount: 1, Account: "alice"}, want: math.MaxUint32, err: errors.ErrOverflow},
		{name: "burn below zero", balance: 3, instr: model.Burn{Amount: 4, Account: "alice"}, want: 3, err: errors.ErrInsufficientBalance},
		{name: "unknown account", balance: 3, instr: model.Mint{Amount: 1, Account: "bob"}, want: 3, err: errors.ErrUnknownAccount},
	}

	for storeName, newStore := range stores() {
		for _, tt := range tests {
			t.Run(storeName+"/"+tt.name, func(t *testing.T) {
				w, err := New([]model.Account{{Name: "alice", Balance: tt.balance}}, WithStore(newStore()))
				require.NoError(t, err)

				err = w.Apply(tt.instr)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				} else {
					require.NoError(t, err)
				}

				acc, err := w.Account("alice")
				require.NoError(t, err)
				assert.Equal(t, tt.want, acc.Balance)
			})
		}
	}
}

func TestApply_Nil(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Apply(nil), &errors.Error{Kind: errors.KindInvalidInput})
}

func TestAnswer(t *testing.T) {
	for storeName, newStore := range stores() {
		t.Run(storeName, func(t *testing.T) {
			w, err := New([]model.Account{{Name: "alice", Balance: 42}}, WithStore(newStore()))
			require.NoError(t, err)

			before, err := w.Digest()
			require.NoError(t, err)

			res, err := w.Answer(model.GetBalance{Account: "alice"})
			require.NoError(t, err)
			assert.Equal(t, model.Balance{Amount: 42}, res)

			_, err = w.Answer(model.GetBalance{Account: "bob"})
			assert.ErrorIs(t, err, errors.ErrUnknownAccount)

			after, err := w.Digest()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestNew_Duplicate(t *testing.T) {
	_, err := New([]model.Account{{Name: "alice"}, {Name: "alice", Balance: 1}})
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindDuplicateAccount})
}

func TestNew_InvalidNames(t *testing.T) {
	tests := []struct {
		name    string
		account model.AccountName
	}{
		{name: "invalid utf-8", account: "\xff"},
		{name: "too long", account: model.AccountName(strings.Repeat("a", codec.MaxStringSize+1))},
	}

	for storeName, newStore := range stores() {
		for _, tt := range tests {
			t.Run(storeName+"/"+tt.name, func(t *testing.T) {
				store := newStore()
				_, err := New([]model.Account{{Name: "alice"}, {Name: tt.account}}, WithStore(store))
				assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseLedger, Kind: errors.KindInvalidInput})

				got, err := store.Accounts()
				require.NoError(t, err)
				assert.Empty(t, got)
			})
		}
	}
}

func TestNew_DuplicateLeavesStoreEmpty(t *testing.T) {
	store := NewDBStore(nil)
	_, err := New([]model.Account{{Name: "alice"}, {Name: "bob"}, {Name: "alice"}}, WithStore(store))
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindDuplicateAccount})

	got, err := store.Accounts()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("alice"))
	assert.NoError(t, CheckName("ålice"))
	assert.NoError(t, CheckName(model.AccountName(strings.Repeat("a", codec.MaxStringSize))))
	assert.Error(t, CheckName("\xc3"))
}

func TestAccounts_Sorted(t *testing.T) {
	seed := []model.Account{
		{Name: "carol", Balance: 3},
		{Name: "alice", Balance: 1},
		{Name: "bob", Balance: 2},
	}
	for storeName, newStore := range stores() {
		t.Run(storeName, func(t *testing.T) {
			w, err := New(seed, WithStore(newStore()))
			require.NoError(t, err)

			got, err := w.Accounts()
			require.NoError(t, err)
			assert.Equal(t, []model.Account{
				{Name: "alice", Balance: 1},
				{Name: "bob", Balance: 2},
				{Name: "carol", Balance: 3},
			}, got)
		})
	}
}

func TestSnapshot(t *testing.T) {
	seed := []model.Account{{Name: "bob", Balance: 2}, {Name: "alice", Balance: 1}}

	a, err := New(seed)
	require.NoError(t, err)
	b, err := New([]model.Account{seed[1], seed[0]}, WithStore(NewDBStore(nil)))
	require.NoError(t, err)

	snapA, err := a.Snapshot()
	require.NoError(t, err)
	snapB, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snapA, snapB)

	decoded, err := DecodeSnapshot(snapA)
	require.NoError(t, err)
	assert.Equal(t, []model.Account{{Name: "alice", Balance: 1}, {Name: "bob", Balance: 2}}, decoded)

	digest, err := a.Digest()
	require.NoError(t, err)
	assert.Len(t, digest, 64)

	require.NoError(t, a.Apply(model.Mint{Amount: 1, Account: "alice"}))
	changed, err := a.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, digest, changed)
}

func TestSnapshot_Empty(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	snap, err := w.Snapshot()
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(snap)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	_, err := DecodeSnapshot([]byte{0xff, 0x00})
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestDBStore_Prefix(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("other/key"), []byte("value")))

	s := NewDBStore(db)
	require.NoError(t, s.Put(model.Account{Name: "alice", Balance: 9}))

	got, err := s.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []model.Account{{Name: "alice", Balance: 9}}, got)

	_, ok, err := s.Get("bob")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Close())
}

func TestApply_Concurrent(t *testing.T) {
	w, err := New([]model.Account{{Name: "alice"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Apply(model.Mint{Amount: 2, Account: "alice"}))
		}()
		go func() {
			defer wg.Done()
			_, err := w.Answer(model.GetBalance{Account: "alice"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc, err := w.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(100), acc.Balance)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("account0"), prefixEnd([]byte("account/")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff}))
}
