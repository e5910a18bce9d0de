package model

// AccountType classifies the statement layout a bank account produces.
type AccountType string

const (
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
)

// Account represents a row in accounts.csv.
type Account struct {
	Name      string
	Currency  string
	Bank      string
	Type      AccountType
	IDPattern string // regular expression matched against a statement's leading content
}
