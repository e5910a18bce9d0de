package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/reconcile"
	"github.com/cleared-dev/tally/internal/runlog"
)

// FileName is the configuration file at the repository root.
const FileName = "tally.yaml"

// EnvPrefix prefixes environment overrides, e.g. TALLY_RECONCILE_THRESHOLD.
const EnvPrefix = "TALLY"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Git       GitConfig       `yaml:"git" mapstructure:"git"`
}

// PathsConfig locates the repository's files. Relative paths are resolved
// against the repository root.
type PathsConfig struct {
	Ledger   string `yaml:"ledger" mapstructure:"ledger"`
	Accounts string `yaml:"accounts" mapstructure:"accounts"`
	Import   string `yaml:"import" mapstructure:"import"`
	RunLog   string `yaml:"run_log" mapstructure:"run_log"`
}

// ReconcileConfig parameterises the reconciliation engine.
type ReconcileConfig struct {
	Threshold        float64  `yaml:"threshold" mapstructure:"threshold"`
	KeyFields        []string `yaml:"key_fields" mapstructure:"key_fields"`
	CorrectionPolicy string   `yaml:"correction_policy" mapstructure:"correction_policy"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" mapstructure:"auto_commit"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// Load reads a tally.yaml file from disk. Any key can be overridden by an
// environment variable: TALLY_ followed by the upper-cased key path joined
// with underscores.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// when the file omits the key.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("paths.ledger", d.Paths.Ledger)
	v.SetDefault("paths.accounts", d.Paths.Accounts)
	v.SetDefault("paths.import", d.Paths.Import)
	v.SetDefault("paths.run_log", d.Paths.RunLog)
	v.SetDefault("reconcile.threshold", d.Reconcile.Threshold)
	v.SetDefault("reconcile.key_fields", d.Reconcile.KeyFields)
	v.SetDefault("reconcile.correction_policy", d.Reconcile.CorrectionPolicy)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("git.auto_commit", d.Git.AutoCommit)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new repository.
func Default() *Config {
	opts := reconcile.DefaultOptions()
	names := make([]string, len(opts.KeyFields))
	for i, k := range opts.KeyFields {
		names[i] = string(k)
	}
	return &Config{
		Paths: PathsConfig{
			Ledger:   ledger.DefaultPath,
			Accounts: accounts.DefaultPath,
			Import:   importer.DefaultDir,
			RunLog:   runlog.DefaultPath,
		},
		Reconcile: ReconcileConfig{
			Threshold:        opts.Threshold,
			KeyFields:        names,
			CorrectionPolicy: string(opts.Policy),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// Resolve returns p relative to root unless it is already absolute.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// ReconcileOptions validates the reconcile section and converts it to engine
// options.
func (c *Config) ReconcileOptions() (reconcile.Options, error) {
	fields, err := id.ParseKeyFields(c.Reconcile.KeyFields)
	if err != nil {
		return reconcile.Options{}, fmt.Errorf("reconcile.key_fields: %w", err)
	}
	policy, err := reconcile.ParsePolicy(c.Reconcile.CorrectionPolicy)
	if err != nil {
		return reconcile.Options{}, fmt.Errorf("reconcile.correction_policy: %w", err)
	}
	t := c.Reconcile.Threshold
	if t < 0 || t > 1 {
		return reconcile.Options{}, fmt.Errorf("reconcile.threshold: %v out of range [0,1]", t)
	}
	return reconcile.Options{Threshold: t, KeyFields: fields, Policy: policy}, nil
}
