package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is a target-budget transaction. Empty ID fields mean null.
// A transaction carries either a payee or a transfer, never both kinds of
// counterparty semantics.
type Transaction struct {
	ID              string           `json:"id,omitempty"`
	Account         string           `json:"account,omitempty"`
	Date            civil.Date       `json:"date"`
	Amount          int64            `json:"amount"` // minor units, negative = outflow
	Notes           string           `json:"notes,omitempty"`
	PayeeID         string           `json:"payee_id,omitempty"`
	PayeeName       string           `json:"payee_name,omitempty"`
	ImportedPayee   string           `json:"imported_payee,omitempty"`
	CategoryID      string           `json:"category_id,omitempty"`
	TransferID      string           `json:"transfer_id,omitempty"`
	Cleared         bool             `json:"cleared"`
	Subtransactions []Subtransaction `json:"subtransactions,omitempty"`
}

// Subtransaction is one split of a parent transaction.
type Subtransaction struct {
	Amount     int64  `json:"amount"`
	CategoryID string `json:"category_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// BankTransaction represents a parsed bank spreadsheet row.
type BankTransaction struct {
	Row         int
	Date        civil.Date
	Amount      decimal.Decimal // negative = expense, positive = income
	Payee       string          // counterparty as printed by the bank
	Description string
}
