package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-ledger/engine"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/wsv"
)

// Peer owns a WSV and the engine that runs guests against it.
// It is safe for concurrent use.
type Peer struct {
	wsv    *wsv.WSV
	engine *engine.Engine
	log    *zap.Logger
}

type options struct {
	log       *zap.Logger
	engineCfg *engine.Config
	store     wsv.Store
}

// Option configures a Peer.
type Option func(*options)

// WithLogger sets the logger for transactions and the WSV.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithEngineConfig sets the engine configuration.
func WithEngineConfig(cfg *engine.Config) Option {
	return func(o *options) { o.engineCfg = cfg }
}

// WithStore sets the account store backing the WSV.
func WithStore(s wsv.Store) Option {
	return func(o *options) { o.store = s }
}

// New creates a peer whose WSV holds accounts.
func New(ctx context.Context, accounts []model.Account, opts ...Option) (*Peer, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	wsvOpts := []wsv.Option{wsv.WithLogger(o.log.Named("wsv"))}
	if o.store != nil {
		wsvOpts = append(wsvOpts, wsv.WithStore(o.store))
	}
	state, err := wsv.New(accounts, wsvOpts...)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(ctx, o.engineCfg)
	if err != nil {
		return nil, err
	}

	return &Peer{wsv: state, engine: eng, log: o.log}, nil
}

// Execute performs the transaction's payload. An instruction payload is
// applied directly; a guest payload is loaded and run as tx.Account.
func (p *Peer) Execute(ctx context.Context, tx *Transaction) error {
	if tx == nil || tx.Payload == nil {
		return errors.InvalidInput(errors.PhaseRuntime, "nil transaction")
	}

	start := time.Now()
	err := p.execute(ctx, tx)

	fields := []zap.Field{
		zap.String("id", tx.ID),
		zap.String("account", string(tx.Account)),
		zap.String("kind", tx.Payload.Kind()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		p.log.Warn("transaction failed", append(fields, zap.Error(err))...)
		return err
	}
	p.log.Info("transaction executed", fields...)
	return nil
}

func (p *Peer) execute(ctx context.Context, tx *Transaction) error {
	switch pl := tx.Payload.(type) {
	case InstructionPayload:
		return p.wsv.Apply(pl.Instruction)
	case GuestPayload:
		mod, err := p.load(ctx, pl)
		if err != nil {
			return err
		}
		return p.engine.Execute(ctx, mod, tx.Account, p.wsv)
	default:
		return errors.InvalidInput(errors.PhaseRuntime, fmt.Sprintf("unsupported payload %T", tx.Payload))
	}
}

func (p *Peer) load(ctx context.Context, pl GuestPayload) (*engine.Module, error) {
	if len(pl.Code) > 0 {
		return p.engine.LoadModule(ctx, pl.Code)
	}
	if pl.Path == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "guest payload without code or path")
	}
	return p.engine.LoadFile(ctx, pl.Path)
}

func (p *Peer) WSV() *wsv.WSV {
	return p.wsv
}

func (p *Peer) Engine() *engine.Engine {
	return p.engine
}

// Close releases the engine. The WSV stays readable.
func (p *Peer) Close(ctx context.Context) error {
	return p.engine.Close(ctx)
}
