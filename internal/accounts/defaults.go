package accounts

import "github.com/cleared-dev/tally/internal/model"

// DefaultAccounts returns the account table written by tally init.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{Name: "BAC ECONOMIA", Currency: "MIXED", Bank: "BAC", Type: model.AccountTypeCreditCard, IDPattern: "BAC ECONOMIA"},
		{Name: "BAC USD 911", Currency: "USD", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC USD 911"},
		{Name: "BAC USD 021", Currency: "USD", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC USD 021"},
		{Name: "BAC HNL 271", Currency: "HNL", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC HNL 271"},
		{Name: "BAC IAP 471", Currency: "USD", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC IAP 471"},
		{Name: "BAC IAP 491", Currency: "USD", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC IAP 491"},
		{Name: "BAC HNL 971", Currency: "HNL", Bank: "BAC", Type: model.AccountTypeSavings, IDPattern: "BAC HNL 971"},
		{Name: "SANTANDER", Currency: "EUR", Bank: "SANTANDER", Type: model.AccountTypeSavings, IDPattern: "SANTANDER"},
		{Name: "REVOLUT", Currency: "EUR", Bank: "REVOLUT", Type: model.AccountTypeSavings, IDPattern: "REVOLUT"},
	}
}
