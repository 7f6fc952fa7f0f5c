package wsv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-ledger/codec"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
)

var snapshotMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wsv: failed to create CBOR enc mode: %v", err))
	}
	snapshotMode = em
}

// WSV is the world state view: the ledger of accounts. Instructions take
// the write lock and queries the read lock, each for one operation only.
type WSV struct {
	store Store
	log   *zap.Logger
	mu    sync.RWMutex
}

type options struct {
	store Store
	log   *zap.Logger
}

// Option configures a WSV.
type Option func(*options)

// WithStore sets the account store. The default is a MapStore.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithLogger sets the logger. The default is the package Logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New seeds a WSV with accounts. Names must be unique.
func New(accounts []model.Account, opts ...Option) (*WSV, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = NewMapStore()
	}
	if o.log == nil {
		o.log = Logger()
	}

	seen := make(map[model.AccountName]struct{}, len(accounts))
	for _, acc := range accounts {
		if err := CheckName(acc.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[acc.Name]; dup {
			return nil, errors.DuplicateAccount(string(acc.Name))
		}
		seen[acc.Name] = struct{}{}
	}
	for _, acc := range accounts {
		if err := o.store.Put(acc); err != nil {
			return nil, err
		}
	}

	return &WSV{store: o.store, log: o.log}, nil
}

// CheckName reports whether name survives the codec: valid UTF-8 no longer
// than codec.MaxStringSize bytes.
func CheckName(name model.AccountName) error {
	if len(name) > codec.MaxStringSize {
		return errors.New(errors.PhaseLedger, errors.KindInvalidInput).
			Detail("account name of %d bytes exceeds %d", len(name), codec.MaxStringSize).
			Build()
	}
	if !utf8.ValidString(string(name)) {
		return errors.New(errors.PhaseLedger, errors.KindInvalidInput).
			Detail("account name %q is not valid UTF-8", string(name)).
			Build()
	}
	return nil
}

// Apply executes one instruction. On error nothing is changed.
func (w *WSV) Apply(instr model.Instruction) error {
	if instr == nil {
		return errors.InvalidInput(errors.PhaseLedger, "nil instruction")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	acc, ok, err := w.store.Get(instr.Target())
	if err != nil {
		return err
	}
	if !ok {
		return errors.UnknownAccount(string(instr.Target()))
	}

	before := acc.Balance
	switch in := instr.(type) {
	case model.Mint:
		if acc.Balance > math.MaxUint32-in.Amount {
			return errors.New(errors.PhaseLedger, errors.KindOverflow).
				Account(string(acc.Name)).
				Detail("mint %d onto balance %d", in.Amount, acc.Balance).
				Value(in.Amount).
				Build()
		}
		acc.Balance += in.Amount
	case model.Burn:
		if in.Amount > acc.Balance {
			return errors.InsufficientBalance(string(acc.Name), acc.Balance, in.Amount)
		}
		acc.Balance -= in.Amount
	default:
		return errors.InvalidInput(errors.PhaseLedger, fmt.Sprintf("unsupported instruction %T", instr))
	}

	if err := w.store.Put(acc); err != nil {
		return err
	}
	w.log.Debug("instruction applied",
		zap.Stringer("instruction", instr),
		zap.Uint32("before", before),
		zap.Uint32("after", acc.Balance))
	return nil
}

// Answer evaluates one query without changing state.
func (w *WSV) Answer(q model.Query) (model.QueryResult, error) {
	if q == nil {
		return nil, errors.InvalidInput(errors.PhaseLedger, "nil query")
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	switch q := q.(type) {
	case model.GetBalance:
		acc, ok, err := w.store.Get(q.Account)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.UnknownAccount(string(q.Account))
		}
		return model.Balance{Amount: acc.Balance}, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseLedger, fmt.Sprintf("unsupported query %T", q))
	}
}

// Account returns the record for name.
func (w *WSV) Account(name model.AccountName) (model.Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	acc, ok, err := w.store.Get(name)
	if err != nil {
		return model.Account{}, err
	}
	if !ok {
		return model.Account{}, errors.UnknownAccount(string(name))
	}
	return acc, nil
}

// Accounts returns every account sorted by name.
func (w *WSV) Accounts() ([]model.Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.Accounts()
}

// Snapshot returns the accounts as canonical CBOR. Equal states give equal bytes.
func (w *WSV) Snapshot() ([]byte, error) {
	accounts, err := w.Accounts()
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	data, err := snapshotMode.Marshal(accounts)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("snapshot").
			Cause(err).
			Build()
	}
	return data, nil
}

// Digest returns the hex SHA-256 of Snapshot.
func (w *WSV) Digest() (string, error) {
	data, err := w.Snapshot()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DecodeSnapshot parses Snapshot output.
func DecodeSnapshot(data []byte) ([]model.Account, error) {
	var accounts []model.Account
	if err := cbor.Unmarshal(data, &accounts); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("snapshot").
			Cause(err).
			Build()
	}
	return accounts, nil
}
