package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/linker"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/stack"
)

// DefaultHostStackCapacity bounds the per-call host stack (64 KiB).
const DefaultHostStackCapacity = 1 << 16

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// ExecutionTimeout interrupts a guest that runs longer. 0 disables it.
	ExecutionTimeout time.Duration

	// HostStackCapacity bounds the host-local stack of each call.
	// 0 means DefaultHostStackCapacity; negative means unbounded.
	HostStackCapacity int
}

// Ledger is the state a guest reads and mutates through host calls.
type Ledger interface {
	Apply(instr model.Instruction) error
	Answer(q model.Query) (model.QueryResult, error)
}

// Stats counts engine activity since creation.
type Stats struct {
	Loads      uint64
	CacheHits  uint64
	Executions uint64
	Failures   uint64
}

// Engine compiles guest modules and runs them against a Ledger.
// Safe for concurrent use.
type Engine struct {
	runtime wazero.Runtime
	linker  *linker.Linker
	cache   map[[sha256.Size]byte]*Module
	cfg     Config
	cacheMu sync.Mutex

	loads      atomic.Uint64
	cacheHits  atomic.Uint64
	executions atomic.Uint64
	failures   atomic.Uint64
}

// New creates an engine with its own wazero runtime and links the host
// function table into it. A nil cfg uses defaults.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.HostStackCapacity == 0 {
		c.HostStackCapacity = DefaultHostStackCapacity
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	l := linker.New(rt)
	if err := l.Link(ctx, hostCapabilities{}); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return &Engine{
		runtime: rt,
		linker:  l,
		cache:   make(map[[sha256.Size]byte]*Module),
		cfg:     c,
	}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Module is a compiled, validated guest.
type Module struct {
	compiled wazero.CompiledModule
	checksum [sha256.Size]byte
	size     int
}

// Checksum returns the hex SHA-256 of the guest binary.
func (m *Module) Checksum() string {
	return hex.EncodeToString(m.checksum[:])
}

// Size returns the guest binary size in bytes.
func (m *Module) Size() int {
	return m.size
}

// LoadModule compiles wasm, or returns the cached module with the same checksum.
// The guest must export execute, push and pop and may import only the host
// function table.
func (e *Engine) LoadModule(ctx context.Context, wasm []byte) (*Module, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty guest binary")
	}
	sum := sha256.Sum256(wasm)

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if m, ok := e.cache[sum]; ok {
		e.cacheHits.Add(1)
		return m, nil
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}
	if err := linker.CheckExports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}
	if err := linker.CheckImports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	m := &Module{compiled: compiled, checksum: sum, size: len(wasm)}
	e.cache[sum] = m
	e.loads.Add(1)
	Logger().Debug("guest compiled",
		zap.String("checksum", m.Checksum()),
		zap.Int("size", m.size))
	return m, nil
}

// LoadFile reads a guest artifact from disk and loads it.
func (e *Engine) LoadFile(ctx context.Context, path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return e.LoadModule(ctx, data)
}

// Execute runs the guest entry point on a fresh instance, invoked as account.
// The account name is pushed onto the guest stack and its size is the sole
// argument of execute. Host calls made by the guest go to ledger. Ledger
// effects of host calls that completed before a failure remain applied.
func (e *Engine) Execute(ctx context.Context, mod *Module, account model.AccountName, ledger Ledger) error {
	if mod == nil {
		return errors.NotInitialized(errors.PhaseRuntime, "module")
	}
	if ledger == nil {
		return errors.NotInitialized(errors.PhaseRuntime, "ledger")
	}

	e.executions.Add(1)
	start := time.Now()

	if e.cfg.ExecutionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ExecutionTimeout)
		defer cancel()
	}

	cs := &callState{
		stack:   stack.NewLocal("host", e.cfg.HostStackCapacity),
		ledger:  ledger,
		account: account,
	}
	ctx = withCall(ctx, cs)

	err := e.execute(ctx, mod, cs)
	if err != nil {
		e.failures.Add(1)
	}

	Logger().Debug("guest executed",
		zap.String("checksum", mod.Checksum()),
		zap.String("account", string(account)),
		zap.Int("instructions", cs.instructions),
		zap.Int("queries", cs.queries),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

func (e *Engine) execute(ctx context.Context, mod *Module, cs *callState) error {
	inst, err := e.Instantiate(ctx, mod)
	if err != nil {
		return err
	}
	defer inst.Close(context.WithoutCancel(ctx))

	size, err := stack.PushArgument(inst.Stack(), cs.account)
	if err != nil {
		return errors.GuestTrap("seed account argument", err)
	}

	return inst.Call(ctx, size)
}

// trapError attributes a failed entry point call to its first cause.
func trapError(ctx context.Context, cs *callState, err error) error {
	if cs.err != nil {
		return errors.GuestTrap("host call failed", cs.err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.GuestTrap("execution interrupted", ctxErr)
	}
	return errors.GuestTrap("guest trapped", err)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Loads:      e.loads.Load(),
		CacheHits:  e.cacheHits.Load(),
		Executions: e.executions.Load(),
		Failures:   e.failures.Load(),
	}
}

// Close releases the runtime, the host modules and every cached module.
func (e *Engine) Close(ctx context.Context) error {
	e.cacheMu.Lock()
	e.cache = make(map[[sha256.Size]byte]*Module)
	e.cacheMu.Unlock()
	if err := e.linker.Close(ctx); err != nil {
		_ = e.runtime.Close(ctx)
		return err
	}
	return e.runtime.Close(ctx)
}
