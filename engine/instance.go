package engine

import (
	"context"
	stderrors "errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/linker"
)

// Instance is one instantiation of a guest. Not safe for concurrent use.
type Instance struct {
	mod     api.Module
	execute api.Function
	stack   *RemoteStack
}

// Instantiate creates a fresh anonymous instance of mod.
// The instance's remote stack is bound to ctx.
func (e *Engine) Instantiate(ctx context.Context, mod *Module) (*Instance, error) {
	if mod == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "module")
	}
	m, err := e.runtime.InstantiateModule(ctx, mod.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	fns := make(map[string]api.Function, 3)
	for _, name := range linker.RequiredExports() {
		fn := m.ExportedFunction(name)
		if fn == nil {
			_ = m.Close(ctx)
			return nil, errors.MissingExport(name)
		}
		fns[name] = fn
	}

	return &Instance{
		mod:     m,
		execute: fns[linker.ExportExecute],
		stack: &RemoteStack{
			ctx:  ctx,
			push: fns[linker.ExportPush],
			pop:  fns[linker.ExportPop],
		},
	}, nil
}

// Stack returns the guest-owned stack reached through the guest's exports.
func (i *Instance) Stack() *RemoteStack {
	return i.stack
}

// Call invokes the entry point with size as its argument. ctx must carry
// the call state installed by Execute; host calls resolve it from there.
func (i *Instance) Call(ctx context.Context, size uint32) error {
	cs, err := callFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := i.execute.Call(ctx, uint64(size)); err != nil {
		return trapError(ctx, cs, err)
	}
	return nil
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// RemoteStack is a ByteStack whose bytes live in guest memory. Each Push
// and Pop is one call into the guest's push and pop exports.
type RemoteStack struct {
	ctx  context.Context
	push api.Function
	pop  api.Function
}

func (s *RemoteStack) Push(b byte) error {
	if _, err := s.push.Call(s.ctx, uint64(b)); err != nil {
		return s.fail("remote push", errors.KindStackOverflow, err)
	}
	return nil
}

func (s *RemoteStack) Pop() (byte, error) {
	res, err := s.pop.Call(s.ctx)
	if err != nil {
		return 0, s.fail("remote pop", errors.KindStackUnderflow, err)
	}
	return byte(api.DecodeU32(res[0])), nil
}

// fail classifies a failed push or pop. The guest's push and pop trap only
// on their bounds, so a plain trap is bounds; an interrupted context or a
// closed module is not.
func (s *RemoteStack) fail(op string, bounds errors.Kind, err error) error {
	kind := bounds
	var exit *sys.ExitError
	if s.ctx.Err() != nil || stderrors.As(err, &exit) {
		kind = errors.KindGuestTrap
	}
	return errors.New(errors.PhaseStack, kind).
		Detail("%s", op).
		Cause(err).
		Build()
}
