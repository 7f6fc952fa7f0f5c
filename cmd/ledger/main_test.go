package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "github.com/wippyai/wasm-ledger"
	"github.com/wippyai/wasm-ledger/contract"
	"github.com/wippyai/wasm-ledger/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_List(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{list: true}, &out))
	assert.Contains(t, out.String(), "balance-keeper\n")
	assert.Contains(t, out.String(), "minter\n")
}

func TestRun_Emit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keeper.wasm")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{emit: "balance-keeper", out: path}, &out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, contract.BalanceKeeper(), data)
	assert.Contains(t, out.String(), "wrote "+path)

	err = run(context.Background(), options{emit: "nope"}, &out)
	assert.ErrorContains(t, err, "unknown contract")
}

func TestRun_Contract(t *testing.T) {
	guest := filepath.Join(t.TempDir(), "keeper.wasm")
	require.NoError(t, os.WriteFile(guest, contract.BalanceKeeper(), 0o644))
	cfg := writeConfig(t, `
[log]
level = "error"

[store]
backend = "memdb"

[[accounts]]
name = "alice"
balance = 5
`)

	var out bytes.Buffer
	err := run(context.Background(), options{
		configPath:   cfg,
		contractPath: guest,
		account:      "alice",
		dump:         true,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), " 6\n")
	assert.Contains(t, out.String(), "digest ")
}

func TestRun_Instructions(t *testing.T) {
	cfg := writeConfig(t, "[log]\nlevel = \"error\"\n")

	var out bytes.Buffer
	err := run(context.Background(), options{configPath: cfg, account: "alice", mint: 5, burn: 2}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Mint(5, alice)")
	assert.Contains(t, out.String(), "Burn(2, alice)")
	assert.Contains(t, out.String(), " 103\n")
}

func TestRun_Failure(t *testing.T) {
	cfg := writeConfig(t, "[log]\nlevel = \"error\"\n")

	var out bytes.Buffer
	err := run(context.Background(), options{configPath: cfg, account: "alice", burn: 500}, &out)
	assert.ErrorContains(t, err, "insufficient_balance")

	err = run(context.Background(), options{configPath: filepath.Join(t.TempDir(), "absent.toml")}, &out)
	assert.Error(t, err)
}

func TestAmountFlag(t *testing.T) {
	tests := []struct {
		arg     string
		want    amount
		wantErr bool
	}{
		{arg: "0", want: 0},
		{arg: "4294967295", want: 4294967295},
		{arg: "4294967296", wantErr: true},
		{arg: "4294967297", wantErr: true},
		{arg: "-1", wantErr: true},
		{arg: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			var a amount
			fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			fs.Var(&a, "mint", "")

			err := fs.Parse([]string{"-mint", tt.arg})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
			assert.Equal(t, tt.arg, a.String())
		})
	}
}

func TestConsole_Commands(t *testing.T) {
	ctx := context.Background()
	peer, err := ledger.New(ctx, []model.Account{{Name: "alice", Balance: 100}})
	require.NoError(t, err)
	defer peer.Close(ctx)
	m := newConsoleModel(peer, "alice")

	tests := []struct {
		line    string
		wantErr bool
		balance uint32
	}{
		{line: "mint 4", balance: 104},
		{line: "burn 1 alice", balance: 103},
		{line: "run balance-keeper", balance: 102},
		{line: "query", balance: 102},
		{line: "burn many", wantErr: true, balance: 102},
		{line: "burn 1000", wantErr: true, balance: 102},
		{line: "fly", wantErr: true, balance: 102},
		{line: "as", wantErr: true, balance: 102},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			msg := m.command(tt.line)().(resultMsg)
			if tt.wantErr {
				assert.Error(t, msg.err)
			} else {
				assert.NoError(t, msg.err)
			}
			acc, err := peer.WSV().Account("alice")
			require.NoError(t, err)
			assert.Equal(t, tt.balance, acc.Balance)
		})
	}

	msg := m.command("as bob")().(resultMsg)
	assert.NoError(t, msg.err)
	assert.Equal(t, "bob", string(m.account))

	_, _ = m.Update(msg)
	assert.Contains(t, m.View(), "acting as")
}
