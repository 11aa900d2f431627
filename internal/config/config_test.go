package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Target.BudgetID = "budget-1"
	cfg.Import.LogFile = "import-log.csv"
	cfg.Accounts = []BankAccount{
		{Name: "Visa", Type: "credit"},
		{Name: "RRSP", Type: "investment", OffBudget: true},
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Target, got.Target)
	assert.Equal(t, cfg.Import, got.Import)
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, "Visa", got.Accounts[0].Name)
	assert.True(t, got.Accounts[1].OffBudget)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:5007", cfg.Target.URL)
	assert.Equal(t, DefaultTokenEnv, cfg.Target.TokenEnv)
	assert.Equal(t, int32(2), cfg.Target.DryRunPlaces)
	assert.Equal(t, "Income", cfg.Import.IncomeCategory)
	assert.Equal(t, 500, cfg.Import.BatchSize)
	assert.Equal(t, 8, cfg.Import.Concurrency)
	assert.Empty(t, cfg.Accounts)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("target:\n  url: https://budget.example\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://budget.example", cfg.Target.URL)
	assert.Equal(t, 500, cfg.Import.BatchSize)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"batch size", "import:\n  batch_size: 0\n"},
		{"concurrency", "import:\n  concurrency: -1\n"},
		{"dry run places", "target:\n  dry_run_places: -1\n"},
		{"unnamed account", "accounts:\n  - type: credit\n"},
		{"duplicate account", "accounts:\n  - name: A\n  - name: A\n"},
		{"syntax", "target: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestToken_FromEnv(t *testing.T) {
	t.Setenv("BUDGETPORT_TEST_TOKEN", "secret")
	cfg := Default()
	cfg.Target.TokenEnv = "BUDGETPORT_TEST_TOKEN"

	token, err := cfg.Token(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
}

func TestToken_FromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUDGETPORT_DOTENV_TOKEN=fromfile\n"), 0o600))
	t.Setenv("BUDGETPORT_DOTENV_TOKEN", "")
	os.Unsetenv("BUDGETPORT_DOTENV_TOKEN")

	cfg := Default()
	cfg.Target.TokenEnv = "BUDGETPORT_DOTENV_TOKEN"
	token, err := cfg.Token(dir)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", token)
}

func TestToken_Missing(t *testing.T) {
	cfg := Default()
	cfg.Target.TokenEnv = "BUDGETPORT_UNSET_TOKEN_FOR_TEST"
	_, err := cfg.Token(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BUDGETPORT_UNSET_TOKEN_FOR_TEST")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "income_category: Income")
	assert.Contains(t, s, "batch_size: 500")
	assert.NotContains(t, s, "accounts:")
}
