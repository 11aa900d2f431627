package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "budgetport.yaml"

// DefaultTokenEnv is the environment variable holding the API token.
const DefaultTokenEnv = "BUDGETPORT_TOKEN"

// Config represents the top-level budgetport.yaml configuration.
type Config struct {
	Target   TargetConfig  `yaml:"target"`
	Import   ImportConfig  `yaml:"import"`
	Accounts []BankAccount `yaml:"accounts,omitempty"`
}

// TargetConfig locates the target budgeting API.
type TargetConfig struct {
	URL      string `yaml:"url"`
	TokenEnv string `yaml:"token_env"`
	BudgetID string `yaml:"budget_id,omitempty"` // used by csv-file imports
	// DryRunPlaces is the minor-unit scale of the in-memory budget used by
	// --dry-run. Real targets report their own.
	DryRunPlaces int32 `yaml:"dry_run_places,omitempty"`
}

// ImportConfig tunes the import run.
type ImportConfig struct {
	IncomeCategory string `yaml:"income_category"`
	BatchSize      int    `yaml:"batch_size"`  // transactions per AddTransactions call
	Concurrency    int    `yaml:"concurrency"` // in-flight API calls per phase
	LogFile        string `yaml:"log_file,omitempty"`
}

// BankAccount overrides the defaults of an account created from a bank
// spreadsheet. Name matches the spreadsheet file name without ".csv".
type BankAccount struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	OffBudget bool   `yaml:"off_budget,omitempty"`
	Closed    bool   `yaml:"closed,omitempty"`
}

// Load reads a budgetport.yaml file from disk. Unset fields take defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
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

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Target: TargetConfig{
			URL:          "http://localhost:5007",
			TokenEnv:     DefaultTokenEnv,
			DryRunPlaces: 2,
		},
		Import: ImportConfig{
			IncomeCategory: "Income",
			BatchSize:      500,
			Concurrency:    8,
		},
	}
}

// Validate checks values that would otherwise fail deep inside an import.
func (c *Config) Validate() error {
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be positive, got %d", c.Import.BatchSize)
	}
	if c.Import.Concurrency <= 0 {
		return fmt.Errorf("import.concurrency must be positive, got %d", c.Import.Concurrency)
	}
	if c.Target.DryRunPlaces < 0 {
		return fmt.Errorf("target.dry_run_places must not be negative, got %d", c.Target.DryRunPlaces)
	}
	if c.Import.IncomeCategory == "" {
		return fmt.Errorf("import.income_category is required")
	}
	seen := make(map[string]bool)
	for _, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("accounts: entry without a name")
		}
		if seen[a.Name] {
			return fmt.Errorf("accounts: duplicate entry %q", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// Token loads <dir>/.env when present and returns the API token from the
// environment variable named by Target.TokenEnv. Variables already set in
// the environment win over .env values.
func (c *Config) Token(dir string) (string, error) {
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("loading %s: %w", envPath, err)
	}

	name := c.Target.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}
	token := os.Getenv(name)
	if token == "" {
		return "", fmt.Errorf("API token not set: export %s or add it to %s", name, envPath)
	}
	return token, nil
}
