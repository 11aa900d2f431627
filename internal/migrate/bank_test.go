package migrate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetport/budgetport/internal/budgetapi/memory"
	"github.com/budgetport/budgetport/internal/config"
	"github.com/budgetport/budgetport/internal/importer"
	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/money"
)

type countingAdds struct {
	*memory.Budget
	calls atomic.Int32
}

func (c *countingAdds) AddTransactions(ctx context.Context, accountID string, txns []model.Transaction) error {
	c.calls.Add(1)
	return c.Budget.AddTransactions(ctx, accountID, txns)
}

func loadChequing(t *testing.T) importer.AccountFile {
	t.Helper()
	f, err := importer.LoadFile("../../testdata/rbc_chequing.csv", &importer.RBCParser{})
	require.NoError(t, err)
	return f
}

func TestImportBankFiles(t *testing.T) {
	target := memory.NewServer(2).CreateBudget("Bank")
	im := New(target, Options{
		Accounts: []config.BankAccount{{Name: "RBC Chequing", Type: "checking"}},
	}, zerolog.Nop())

	f := loadChequing(t)
	f.AccountName = "rbc chequing"
	require.NoError(t, im.ImportBankFiles(context.Background(), []importer.AccountFile{f}))

	accts, err := target.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, "rbc chequing", accts[0].Name)
	assert.Equal(t, model.AccountTypeChecking, accts[0].Type)

	txns := target.Transactions(accts[0].ID)
	require.Len(t, txns, 4)

	coffee := txns[0]
	assert.Equal(t, int64(-450), coffee.Amount)
	assert.Equal(t, "TIM HORTONS #1234", coffee.ImportedPayee)
	assert.Equal(t, "Coffee", coffee.Notes)
	assert.NotEmpty(t, coffee.PayeeID)
	assert.Equal(t, "2022-01-03", coffee.Date.String())

	payroll := txns[2]
	assert.Equal(t, int64(250000), payroll.Amount)
	assert.Empty(t, payroll.Notes)

	report := im.Report()
	assert.Equal(t, 4, report.Created(PhaseBankFiles))
	issues := report.Issues()
	require.Len(t, issues, 2)
	for _, is := range issues {
		assert.Equal(t, PhaseBankFiles, is.Phase)
		var malformed *model.MalformedInputError
		assert.True(t, errors.As(is.Err, &malformed))
	}
}

func TestImportBankFiles_Batches(t *testing.T) {
	target := &countingAdds{Budget: memory.NewServer(2).CreateBudget("Bank")}
	im := New(target, Options{BatchSize: 3}, zerolog.Nop())

	require.NoError(t, im.ImportBankFiles(context.Background(), []importer.AccountFile{loadChequing(t)}))
	assert.Equal(t, int32(2), target.calls.Load())
}

func TestImportBankFiles_InvalidOverride(t *testing.T) {
	target := memory.NewServer(2).CreateBudget("Bank")
	im := New(target, Options{
		Accounts: []config.BankAccount{{Name: "rbc_chequing", Type: "brokerage"}},
	}, zerolog.Nop())

	err := im.ImportBankFiles(context.Background(), []importer.AccountFile{loadChequing(t)})
	assert.Error(t, err)
}

func TestImportBankFile_ReusesAccount(t *testing.T) {
	ctx := context.Background()
	target := memory.NewServer(2).CreateBudget("Existing")
	existing, err := target.CreateAccount(ctx, model.Account{Name: "RBC_Chequing", Type: model.AccountTypeChecking})
	require.NoError(t, err)

	im := New(target, Options{}, zerolog.Nop())
	require.NoError(t, im.ImportBankFile(ctx, loadChequing(t)))

	accts, err := target.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accts, 1)
	assert.Len(t, target.Transactions(existing), 4)
	assert.Zero(t, im.Report().Created(PhaseAccounts))
}

func TestImportBankFile_CreatesAccount(t *testing.T) {
	ctx := context.Background()
	target := memory.NewServer(2).CreateBudget("Existing")

	im := New(target, Options{}, zerolog.Nop())
	require.NoError(t, im.ImportBankFile(ctx, loadChequing(t)))

	accts, err := target.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, "rbc_chequing", accts[0].Name)
	assert.Equal(t, model.AccountTypeOther, accts[0].Type)
	assert.Equal(t, 1, im.Report().Created(PhaseAccounts))
}

func TestImportBankFile_AmountOutOfRange(t *testing.T) {
	target := memory.NewServer(2).CreateBudget("Bank")
	im := New(target, Options{}, zerolog.Nop())

	f := importer.AccountFile{
		AccountName: "Visa",
		Path:        "/exports/Visa.csv",
		Result: &importer.Result{Transactions: []model.BankTransaction{
			{Row: 2, Date: civil.Date{Year: 2022, Month: 1, Day: 3}, Amount: decimal.RequireFromString("-12.00"), Payee: "SHOP"},
			{Row: 3, Date: civil.Date{Year: 2022, Month: 1, Day: 4}, Amount: decimal.RequireFromString("-1e40"), Payee: "GLITCH"},
		}},
	}
	require.NoError(t, im.ImportBankFile(context.Background(), f))

	accts, err := target.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accts, 1)
	txns := target.Transactions(accts[0].ID)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(-1200), txns[0].Amount)

	issues := im.Report().Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "Visa.csv row 3", issues[0].Ref)
	var malformed *model.MalformedInputError
	require.True(t, errors.As(issues[0].Err, &malformed))
	assert.ErrorIs(t, issues[0].Err, money.ErrOutOfRange)
}
