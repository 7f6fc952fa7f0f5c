// Package config loads ledger.toml peer configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	dbm "github.com/cometbft/cometbft-db"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-ledger/engine"
	"github.com/wippyai/wasm-ledger/errors"
	"github.com/wippyai/wasm-ledger/model"
	"github.com/wippyai/wasm-ledger/wsv"
)

// Store backends.
const (
	BackendMap   = "map"
	BackendMemDB = "memdb"
)

// Config is a ledger.toml peer configuration.
type Config struct {
	Engine   Engine    `toml:"engine"`
	Store    Store     `toml:"store"`
	Log      Log       `toml:"log"`
	Accounts []Account `toml:"accounts"`
}

// Engine configures guest execution.
type Engine struct {
	MemoryLimitPages  uint32   `toml:"memory_limit_pages"`
	ExecutionTimeout  Duration `toml:"execution_timeout"`
	HostStackCapacity int      `toml:"host_stack_capacity"`
}

// Store selects the WSV backend. Both backends are in-memory.
type Store struct {
	Backend string `toml:"backend"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Account seeds the WSV.
type Account struct {
	Name    string `toml:"name"`
	Balance uint32 `toml:"balance"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given:
// one account alice with balance 100.
func Default() *Config {
	return &Config{
		Engine: Engine{ExecutionTimeout: Duration{5 * time.Second}},
		Store:  Store{Backend: BackendMap},
		Log:    Log{Level: "info"},
		Accounts: []Account{
			{Name: "alice", Balance: 100},
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read "+path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over Default and validates the result.
// A file that lists accounts replaces the default ones.
func Parse(data []byte) (*Config, error) {
	c := Default()
	c.Accounts = nil
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Config("parse", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Config("unknown keys "+strings.Join(keys, ", "), nil)
	}
	if !md.IsDefined("accounts") {
		c.Accounts = Default().Accounts
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks account names, the store backend and the log level.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Name == "" {
			return errors.Config(fmt.Sprintf("accounts[%d]: empty name", i), nil)
		}
		if err := wsv.CheckName(model.AccountName(a.Name)); err != nil {
			return err
		}
		if _, dup := seen[a.Name]; dup {
			return errors.DuplicateAccount(a.Name)
		}
		seen[a.Name] = struct{}{}
	}

	switch c.Store.Backend {
	case BackendMap, BackendMemDB:
	default:
		return errors.Config(fmt.Sprintf("store: unknown backend %q", c.Store.Backend), nil)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Config("log: level", err)
	}
	if c.Engine.ExecutionTimeout.Duration < 0 {
		return errors.Config("engine: negative execution_timeout", nil)
	}
	return nil
}

// ModelAccounts converts the seeded accounts.
func (c *Config) ModelAccounts() []model.Account {
	out := make([]model.Account, len(c.Accounts))
	for i, a := range c.Accounts {
		out[i] = model.Account{Name: model.AccountName(a.Name), Balance: a.Balance}
	}
	return out
}

// EngineConfig converts the engine section.
func (c *Config) EngineConfig() *engine.Config {
	return &engine.Config{
		MemoryLimitPages:  c.Engine.MemoryLimitPages,
		ExecutionTimeout:  c.Engine.ExecutionTimeout.Duration,
		HostStackCapacity: c.Engine.HostStackCapacity,
	}
}

// OpenStore creates the configured WSV store.
func (c *Config) OpenStore() (wsv.Store, error) {
	switch c.Store.Backend {
	case BackendMap, "":
		return wsv.NewMapStore(), nil
	case BackendMemDB:
		return wsv.NewDBStore(dbm.NewMemDB()), nil
	default:
		return nil, errors.Config(fmt.Sprintf("store: unknown backend %q", c.Store.Backend), nil)
	}
}

// Logger builds a zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Config("log: level", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Config("build logger", err)
	}
	return l, nil
}
