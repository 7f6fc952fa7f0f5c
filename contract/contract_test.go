package contract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-ledger/linker"
)

func TestGuests_Compile(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	guests := map[string][]byte{
		"mint-then-trap":  MintThenTrap(3),
		"without-execute": WithoutExecute(),
		"foreign-import":  ForeignImport(),
		"oversized":       Oversized(),
		"oversized-query": OversizedQuery(),
	}
	for name, build := range Catalog {
		guests[name] = build()
	}

	for name, bin := range guests {
		t.Run(name, func(t *testing.T) {
			compiled, err := rt.CompileModule(ctx, bin)
			require.NoError(t, err)

			exports := compiled.ExportedFunctions()
			assert.Contains(t, exports, linker.ExportPush)
			assert.Contains(t, exports, linker.ExportPop)
			if name != "without-execute" {
				assert.Contains(t, exports, linker.ExportExecute)
			}
			assert.Contains(t, compiled.ExportedMemories(), "memory")
		})
	}
}

// The guest-local stack alone, driven through its exports.
func TestGuestStack_LIFO(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	// host imports are declared but never called by push/pop
	_, err := rt.NewHostModuleBuilder(linker.ModuleStack).
		NewFunctionBuilder().WithFunc(func(uint32) {}).Export(linker.FuncPush).
		NewFunctionBuilder().WithFunc(func() uint32 { return 0 }).Export(linker.FuncPop).
		Instantiate(ctx)
	require.NoError(t, err)
	_, err = rt.NewHostModuleBuilder(linker.ModuleLedger).
		NewFunctionBuilder().WithFunc(func(uint32) {}).Export(linker.FuncExecuteInstruction).
		NewFunctionBuilder().WithFunc(func(uint32) uint32 { return 0 }).Export(linker.FuncExecuteQuery).
		Instantiate(ctx)
	require.NoError(t, err)

	mod, err := rt.Instantiate(ctx, Idle())
	require.NoError(t, err)

	push := mod.ExportedFunction(linker.ExportPush)
	pop := mod.ExportedFunction(linker.ExportPop)
	for _, b := range []uint64{1, 2, 3} {
		_, err := push.Call(ctx, b)
		require.NoError(t, err)
	}
	for _, want := range []uint64{3, 2, 1} {
		res, err := pop.Call(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, res[0])
	}

	// empty stack traps
	_, err = pop.Call(ctx)
	assert.Error(t, err)
}

func TestAmountBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 1}, amountBytes(1))
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, amountBytes(0x12345678))
}
