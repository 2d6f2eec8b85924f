// Package config loads the host-side configuration file. Only host
// concerns live here: file locations, verbosity, and the capacity
// params the journal was deployed with. The params are validated and
// then checked against the journal's meta table on open, so a config
// edit cannot silently change the state layout.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

// Config is the YAML configuration file.
type Config struct {
	// JournalPath is the SQLite call journal location.
	JournalPath string `yaml:"journal_path"`

	// IdentityPath is the client keypair file location.
	IdentityPath string `yaml:"identity_path"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	// Ledger holds the capacity params. Must match the journal.
	Ledger Ledger `yaml:"ledger"`
}

// Ledger mirrors ledger.Params in YAML form.
type Ledger struct {
	MaxRegistrants int    `yaml:"max_registrants"`
	LogCapacity    int    `yaml:"log_capacity"`
	RateLimitTicks uint64 `yaml:"rate_limit_ticks"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		JournalPath:  "qm.journal",
		IdentityPath: "qm.key",
		Ledger: Ledger{
			MaxRegistrants: ledger.DefaultMaxRegistrants,
			LogCapacity:    ledger.DefaultLogCapacity,
			RateLimitTicks: ledger.DefaultRateLimitTicks,
		},
	}
}

// Load reads a config file over the defaults. A missing file is not an
// error: the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Params().Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Params converts the ledger section to ledger.Params.
func (c Config) Params() ledger.Params {
	return ledger.Params{
		MaxRegistrants: c.Ledger.MaxRegistrants,
		LogCapacity:    c.Ledger.LogCapacity,
		RateLimitTicks: c.Ledger.RateLimitTicks,
	}
}
