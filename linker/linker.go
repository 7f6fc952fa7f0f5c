package linker

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-ledger/errors"
)

// Host module and function names a guest may import.
const (
	ModuleStack  = "stack"
	ModuleLedger = "ledger"

	FuncPush               = "push"
	FuncPop                = "pop"
	FuncExecuteInstruction = "execute_instruction"
	FuncExecuteQuery       = "execute_query"
)

// Names a guest must export.
const (
	ExportExecute = "execute"
	ExportPush    = "push"
	ExportPop     = "pop"
)

// Capabilities is everything a guest can ask of the host.
// Implementations resolve per-call state from ctx.
type Capabilities interface {
	// StackPush pushes b onto the host-local stack.
	StackPush(ctx context.Context, b byte) error
	// StackPop pops from the host-local stack.
	StackPop(ctx context.Context) (byte, error)
	// ExecuteInstruction pops size bytes, decodes an Instruction and applies it.
	ExecuteInstruction(ctx context.Context, size uint32) error
	// ExecuteQuery pops size bytes, decodes a Query, answers it, pushes the
	// encoded result and returns its size.
	ExecuteQuery(ctx context.Context, size uint32) (uint32, error)
}

// Import describes one host function.
type Import struct {
	Module  string
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

var i32 = []api.ValueType{api.ValueTypeI32}

var imports = []Import{
	{Module: ModuleStack, Name: FuncPush, Params: i32},
	{Module: ModuleStack, Name: FuncPop, Results: i32},
	{Module: ModuleLedger, Name: FuncExecuteInstruction, Params: i32},
	{Module: ModuleLedger, Name: FuncExecuteQuery, Params: i32, Results: i32},
}

// Imports returns the fixed host function table.
func Imports() []Import {
	out := make([]Import, len(imports))
	copy(out, imports)
	return out
}

// RequiredExports returns the entry points every guest must export.
func RequiredExports() []string {
	return []string{ExportExecute, ExportPush, ExportPop}
}

// Linker registers the host function table into a wazero runtime.
// Thread-safe.
type Linker struct {
	runtime wazero.Runtime
	modules []api.Module
	mu      sync.Mutex
}

// New creates a Linker for rt.
func New(rt wazero.Runtime) *Linker {
	return &Linker{runtime: rt}
}

// Linked reports whether Link has succeeded.
func (l *Linker) Linked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.modules) > 0
}

// Link instantiates the stack and ledger host modules, each import bound
// directly to its Capabilities method. It may be called once per runtime.
func (l *Linker) Link(ctx context.Context, caps Capabilities) error {
	if caps == nil {
		return errors.InvalidInput(errors.PhaseLinking, "nil capabilities")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.modules) > 0 {
		return errors.New(errors.PhaseLinking, errors.KindRegistration).
			Detail("host modules already linked").
			Build()
	}

	stack := l.runtime.NewHostModuleBuilder(ModuleStack)
	stack.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, s []uint64) {
			if err := caps.StackPush(ctx, byte(api.DecodeU32(s[0]))); err != nil {
				abort(FuncPush, err)
			}
		}), i32, nil).
		Export(FuncPush)
	stack.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, s []uint64) {
			b, err := caps.StackPop(ctx)
			if err != nil {
				abort(FuncPop, err)
			}
			s[0] = api.EncodeU32(uint32(b))
		}), nil, i32).
		Export(FuncPop)

	stackMod, err := stack.Instantiate(ctx)
	if err != nil {
		return errors.Registration(ModuleStack, "*", err)
	}

	ledger := l.runtime.NewHostModuleBuilder(ModuleLedger)
	ledger.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, s []uint64) {
			if err := caps.ExecuteInstruction(ctx, api.DecodeU32(s[0])); err != nil {
				abort(FuncExecuteInstruction, err)
			}
		}), i32, nil).
		Export(FuncExecuteInstruction)
	ledger.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, s []uint64) {
			n, err := caps.ExecuteQuery(ctx, api.DecodeU32(s[0]))
			if err != nil {
				abort(FuncExecuteQuery, err)
			}
			s[0] = api.EncodeU32(n)
		}), i32, i32).
		Export(FuncExecuteQuery)

	ledgerMod, err := ledger.Instantiate(ctx)
	if err != nil {
		_ = stackMod.Close(ctx)
		return errors.Registration(ModuleLedger, "*", err)
	}

	l.modules = []api.Module{stackMod, ledgerMod}
	Logger().Debug("host modules linked",
		zap.Strings("modules", []string{ModuleStack, ModuleLedger}))
	return nil
}

// Close releases the host modules.
func (l *Linker) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	for _, m := range l.modules {
		if err := m.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	l.modules = nil
	return first
}

// abort unwinds the guest. wazero recovers the panic and returns err,
// wrapped, from the guest call.
func abort(fn string, err error) {
	Logger().Debug("host call failed", zap.String("func", fn), zap.Error(err))
	panic(err)
}
