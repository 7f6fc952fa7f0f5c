package engine

import (
	"context"

	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/stack"
)

// callState is owned by one Execute call and reached from host functions
// through the call context.
type callState struct {
	err          error // first host failure
	stack        *stack.Local
	ledger       Ledger
	account      model.AccountName
	instructions int
	queries      int
}

type callKey struct{}

func withCall(ctx context.Context, cs *callState) context.Context {
	return context.WithValue(ctx, callKey{}, cs)
}

func callFrom(ctx context.Context) (*callState, error) {
	cs, ok := ctx.Value(callKey{}).(*callState)
	if !ok {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "call state")
	}
	return cs, nil
}

func (cs *callState) fail(err error) error {
	if cs.err == nil {
		cs.err = err
	}
	return err
}

// checkSize rejects an argument size larger than the host stack holds.
// The stack is left untouched.
func (cs *callState) checkSize(size uint32) error {
	if held := cs.stack.Len(); uint64(size) > uint64(held) {
		return errors.New(errors.PhaseStack, errors.KindStackUnderflow).
			Detail("argument of %d bytes, host stack holds %d", size, held).
			Value(size).
			Build()
	}
	return nil
}

// hostCapabilities serves the host function table from the call state.
type hostCapabilities struct{}

func (hostCapabilities) StackPush(ctx context.Context, b byte) error {
	cs, err := callFrom(ctx)
	if err != nil {
		return err
	}
	if err := cs.stack.Push(b); err != nil {
		return cs.fail(err)
	}
	return nil
}

func (hostCapabilities) StackPop(ctx context.Context) (byte, error) {
	cs, err := callFrom(ctx)
	if err != nil {
		return 0, err
	}
	b, err := cs.stack.Pop()
	if err != nil {
		return 0, cs.fail(err)
	}
	return b, nil
}

func (hostCapabilities) ExecuteInstruction(ctx context.Context, size uint32) error {
	cs, err := callFrom(ctx)
	if err != nil {
		return err
	}
	if err := cs.checkSize(size); err != nil {
		return cs.fail(err)
	}
	instr, err := stack.PopArgument(cs.stack, size, model.DecodeInstruction)
	if err != nil {
		return cs.fail(err)
	}
	cs.instructions++
	if err := cs.ledger.Apply(instr); err != nil {
		return cs.fail(err)
	}
	return nil
}

func (hostCapabilities) ExecuteQuery(ctx context.Context, size uint32) (uint32, error) {
	cs, err := callFrom(ctx)
	if err != nil {
		return 0, err
	}
	if err := cs.checkSize(size); err != nil {
		return 0, cs.fail(err)
	}
	q, err := stack.PopArgument(cs.stack, size, model.DecodeQuery)
	if err != nil {
		return 0, cs.fail(err)
	}
	cs.queries++
	res, err := cs.ledger.Answer(q)
	if err != nil {
		return 0, cs.fail(err)
	}
	n, err := stack.PushArgument(cs.stack, res)
	if err != nil {
		return 0, cs.fail(err)
	}
	return n, nil
}
