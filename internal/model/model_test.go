package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTypeValid(t *testing.T) {
	for _, at := range []AccountType{
		AccountTypeChecking, AccountTypeCredit, AccountTypeSavings,
		AccountTypeInvestment, AccountTypeMortgage, AccountTypeOther,
	} {
		assert.True(t, at.Valid(), "%q", at)
	}
	assert.False(t, AccountType("brokerage").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestTransactionJSON_NullsOmitted(t *testing.T) {
	txn := Transaction{
		ID:     "t1",
		Date:   civil.Date{Year: 2022, Month: 3, Day: 5},
		Amount: -1250,
	}
	data, err := json.Marshal(txn)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2022-03-05", m["date"])
	assert.NotContains(t, m, "category_id")
	assert.NotContains(t, m, "transfer_id")
	assert.NotContains(t, m, "payee_id")
}

func TestMalformedInputError(t *testing.T) {
	cause := strconv.ErrSyntax
	err := &MalformedInputError{Record: "Transaction/1", Field: "date", Value: "xx", Err: cause}
	assert.Contains(t, err.Error(), "Transaction/1")
	assert.Contains(t, err.Error(), "date")
	assert.True(t, errors.Is(err, strconv.ErrSyntax))
}
