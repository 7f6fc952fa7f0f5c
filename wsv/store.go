package wsv

import (
	"sort"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/wippyai/wasm-ledger/codec"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
)

// Store holds account records. Implementations need not be safe for
// concurrent writes; WSV serializes them.
type Store interface {
	Get(name model.AccountName) (model.Account, bool, error)
	Put(acc model.Account) error
	// Accounts returns every record sorted by name.
	Accounts() ([]model.Account, error)
}

// MapStore keeps accounts in a Go map.
type MapStore struct {
	balances map[model.AccountName]uint32
}

func NewMapStore() *MapStore {
	return &MapStore{balances: make(map[model.AccountName]uint32)}
}

func (s *MapStore) Get(name model.AccountName) (model.Account, bool, error) {
	bal, ok := s.balances[name]
	if !ok {
		return model.Account{}, false, nil
	}
	return model.Account{Name: name, Balance: bal}, true, nil
}

func (s *MapStore) Put(acc model.Account) error {
	s.balances[acc.Name] = acc.Balance
	return nil
}

func (s *MapStore) Accounts() ([]model.Account, error) {
	out := make([]model.Account, 0, len(s.balances))
	for name, bal := range s.balances {
		out = append(out, model.Account{Name: name, Balance: bal})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// accountPrefix namespaces account keys in a shared database.
var accountPrefix = []byte("account/")

// DBStore keeps codec-encoded accounts in a cometbft-db database.
type DBStore struct {
	db dbm.DB
}

// NewDBStore wraps db. A nil db gets a fresh in-memory database.
func NewDBStore(db dbm.DB) *DBStore {
	if db == nil {
		db = dbm.NewMemDB()
	}
	return &DBStore{db: db}
}

func accountKey(name model.AccountName) []byte {
	key := make([]byte, 0, len(accountPrefix)+len(name))
	key = append(key, accountPrefix...)
	return append(key, name...)
}

func (s *DBStore) Get(name model.AccountName) (model.Account, bool, error) {
	v, err := s.db.Get(accountKey(name))
	if err != nil {
		return model.Account{}, false, storeError("get", err)
	}
	if v == nil {
		return model.Account{}, false, nil
	}
	acc, err := codec.Unmarshal(v, model.DecodeAccount)
	if err != nil {
		return model.Account{}, false, err
	}
	return acc, true, nil
}

func (s *DBStore) Put(acc model.Account) error {
	if err := s.db.Set(accountKey(acc.Name), codec.Marshal(acc)); err != nil {
		return storeError("set", err)
	}
	return nil
}

// Accounts iterates the account prefix; keys sort bytewise, so names come out ordered.
func (s *DBStore) Accounts() ([]model.Account, error) {
	it, err := s.db.Iterator(accountPrefix, prefixEnd(accountPrefix))
	if err != nil {
		return nil, storeError("iterate", err)
	}
	defer it.Close()

	var out []model.Account
	for ; it.Valid(); it.Next() {
		acc, err := codec.Unmarshal(it.Value(), model.DecodeAccount)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	if err := it.Error(); err != nil {
		return nil, storeError("iterate", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *DBStore) Close() error {
	return s.db.Close()
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func storeError(op string, err error) error {
	return errors.New(errors.PhaseLedger, errors.KindInvalidData).
		Detail("store %s", op).
		Cause(err).
		Build()
}
