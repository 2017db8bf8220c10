package models

import "time"

// Transaction is a single bank-statement row as indexed into the search
// engine. Field names follow the CSV header of the source statements
// (Date,Description,Category,Amount,Type) so that agent-side ES|QL tools
// can reference them directly.
type Transaction struct {
	Date        time.Time `json:"Date"`
	Description string    `json:"Description"`
	Category    string    `json:"Category"`
	Amount      float64   `json:"Amount"`
	Type        string    `json:"Type"`
	Username    string    `json:"Username"`
}

// Transaction types.
const (
	TransactionDebit  = "Debit"
	TransactionCredit = "Credit"
)
