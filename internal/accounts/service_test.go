package accounts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetport/budgetport/internal/config"
	"github.com/budgetport/budgetport/internal/model"
)

func sampleAccounts() []model.Account {
	return []model.Account{
		{ID: "a1", Name: "Chequing", Type: model.AccountTypeChecking},
		{ID: "a2", Name: "RRSP", Type: model.AccountTypeInvestment, OffBudget: true},
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(sampleAccounts())
	for _, a := range sampleAccounts() {
		got, ok := svc.Get(a.ID)
		assert.True(t, ok)
		assert.Equal(t, a, got)
	}
}

func TestGet(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, ok := svc.Get("a1")
	assert.True(t, ok)
	assert.Equal(t, "Chequing", acct.Name)

	_, ok = svc.Get("zz")
	assert.False(t, ok)
}

func TestByName(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, ok := svc.ByName("rrsp")
	require.True(t, ok)
	assert.Equal(t, "a2", acct.ID)

	_, ok = svc.ByName("Visa")
	assert.False(t, ok)
}

func TestOffBudget(t *testing.T) {
	svc := NewService(sampleAccounts())

	off, err := svc.OffBudget("a2")
	require.NoError(t, err)
	assert.True(t, off)

	off, err = svc.OffBudget("a1")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = svc.OffBudget("missing")
	var unknown *UnknownAccountError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.ID)
}

func TestTypeFromYNAB(t *testing.T) {
	tests := []struct {
		tag  string
		want model.AccountType
	}{
		{"Cash", model.AccountTypeChecking},
		{"Checking", model.AccountTypeChecking},
		{"CreditCard", model.AccountTypeCredit},
		{"Savings", model.AccountTypeSavings},
		{"InvestmentAccount", model.AccountTypeInvestment},
		{"Mortgage", model.AccountTypeMortgage},
		{"LineOfCredit", model.AccountTypeOther},
		{"", model.AccountTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeFromYNAB(tt.tag), "TypeFromYNAB(%q)", tt.tag)
	}
}

func TestForSpreadsheet_Defaults(t *testing.T) {
	acct, err := ForSpreadsheet("Chequing", nil)
	require.NoError(t, err)
	assert.Equal(t, "Chequing", acct.Name)
	assert.Equal(t, model.AccountTypeOther, acct.Type)
	assert.False(t, acct.OffBudget)
	assert.False(t, acct.Closed)
}

func TestForSpreadsheet_Override(t *testing.T) {
	overrides := []config.BankAccount{
		{Name: "visa", Type: "credit"},
		{Name: "RRSP", Type: "investment", OffBudget: true, Closed: true},
	}

	acct, err := ForSpreadsheet("Visa", overrides)
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeCredit, acct.Type)

	acct, err = ForSpreadsheet("RRSP", overrides)
	require.NoError(t, err)
	assert.True(t, acct.OffBudget)
	assert.True(t, acct.Closed)
}

func TestForSpreadsheet_InvalidType(t *testing.T) {
	_, err := ForSpreadsheet("X", []config.BankAccount{{Name: "X", Type: "brokerage"}})
	assert.Error(t, err)
}
