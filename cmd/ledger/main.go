package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"

	ledger "github.com/wippyai/wasm-ledger"
	"github.com/wippyai/wasm-ledger/client"
	"github.com/wippyai/wasm-ledger/config"
	"github.com/wippyai/wasm-ledger/contract"
	"github.com/wippyai/wasm-ledger/engine"
	"github.com/wippyai/wasm-ledger/linker"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/wsv"
)

type options struct {
	configPath   string
	contractPath string
	account      string
	mint         amount
	burn         amount
	emit         string
	out          string
	dump         bool
	list         bool
	interactive  bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to ledger.toml (defaults: alice=100)")
	flag.StringVar(&o.contractPath, "contract", "", "Guest module to run as -account")
	flag.StringVar(&o.account, "account", "alice", "Account submitting transactions")
	flag.Var(&o.mint, "mint", "Mint amount onto -account before running the guest")
	flag.Var(&o.burn, "burn", "Burn amount from -account before running the guest")
	flag.StringVar(&o.emit, "emit-contract", "", "Write a bundled guest module and exit")
	flag.StringVar(&o.out, "out", "", "Output path for -emit-contract (default <name>.wasm)")
	flag.BoolVar(&o.dump, "dump", false, "Print the WSV snapshot digest")
	flag.BoolVar(&o.list, "list", false, "List bundled guest modules and exit")
	flag.BoolVar(&o.interactive, "i", false, "Interactive console")
	flag.Parse()

	if o.interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
		os.Exit(1)
	}

	if err := run(context.Background(), o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, w io.Writer) error {
	if o.list {
		for _, name := range catalogNames() {
			fmt.Fprintln(w, name)
		}
		return nil
	}
	if o.emit != "" {
		return emit(o.emit, o.out, w)
	}

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	engine.SetLogger(log.Named("engine"))
	linker.SetLogger(log.Named("linker"))
	client.SetLogger(log.Named("client"))

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	if c, ok := store.(*wsv.DBStore); ok {
		defer c.Close()
	}

	peer, err := ledger.New(ctx, cfg.ModelAccounts(),
		ledger.WithLogger(log),
		ledger.WithEngineConfig(cfg.EngineConfig()),
		ledger.WithStore(store))
	if err != nil {
		return err
	}
	defer peer.Close(ctx)

	if o.interactive {
		return runInteractive(peer, model.AccountName(o.account))
	}

	c := client.New(peer)
	account := model.AccountName(o.account)
	for _, tx := range transactions(o, account) {
		r, err := c.SubmitTransaction(ctx, tx)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("ok"), describe(tx), dimStyle.Render(r.Elapsed.String()))
	}

	if err := printWSV(w, peer.WSV()); err != nil {
		return err
	}
	if o.dump {
		digest, err := peer.WSV().Digest()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "digest %s\n", digest)
	}
	return nil
}

func transactions(o options, account model.AccountName) []*ledger.Transaction {
	var txs []*ledger.Transaction
	if o.mint > 0 {
		txs = append(txs, ledger.WithInstruction(model.Mint{Amount: uint32(o.mint), Account: account}, account))
	}
	if o.burn > 0 {
		txs = append(txs, ledger.WithInstruction(model.Burn{Amount: uint32(o.burn), Account: account}, account))
	}
	if o.contractPath != "" {
		txs = append(txs, ledger.WithGuestModule(o.contractPath, account))
	}
	return txs
}

// amount is a u32 flag value; out-of-range input is rejected at parse time.
type amount uint32

func (a *amount) String() string {
	return strconv.FormatUint(uint64(*a), 10)
}

func (a *amount) Set(s string) error {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*a = amount(v)
	return nil
}

func describe(tx *ledger.Transaction) string {
	switch p := tx.Payload.(type) {
	case ledger.InstructionPayload:
		return p.Instruction.String()
	case ledger.GuestPayload:
		return p.String() + " as " + string(tx.Account)
	default:
		return tx.Payload.Kind()
	}
}

func emit(name, out string, w io.Writer) error {
	build, ok := contract.Catalog[name]
	if !ok {
		return fmt.Errorf("unknown contract %q (have %s)", name, strings.Join(catalogNames(), ", "))
	}
	if out == "" {
		out = name + ".wasm"
	}
	bin := build()
	if err := os.WriteFile(out, bin, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", out, len(bin))
	return nil
}

func catalogNames() []string {
	names := make([]string, 0, len(contract.Catalog))
	for name := range contract.Catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printWSV(w io.Writer, state *wsv.WSV) error {
	accounts, err := state.Accounts()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, titleStyle.Render("WSV"))
	for _, acc := range accounts {
		fmt.Fprintf(w, "  %s %s\n", nameStyle.Render(fmt.Sprintf("%-16s", acc.Name)), balanceStyle.Render(fmt.Sprint(acc.Balance)))
	}
	return nil
}
