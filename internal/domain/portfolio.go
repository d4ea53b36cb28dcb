package domain

import "github.com/shopspring/decimal"

// WalletSnapshot is a consistent read of the wallet at one point in time
type WalletSnapshot struct {
	InitialBalance decimal.Decimal
	CashBalance    decimal.Decimal
	Holdings       []Holding
}

// HoldingValue is a holding priced at the current market
type HoldingValue struct {
	Holding
	Price       decimal.Decimal
	MarketValue decimal.Decimal
	Stale       bool // true when Price fell back to ReferencePrice
}

// PortfolioValue summarizes the wallet at current prices
type PortfolioValue struct {
	CashBalance   decimal.Decimal
	HoldingsValue decimal.Decimal
	Total         decimal.Decimal
	Profit        decimal.Decimal // Total minus the initial balance
	Holdings      []HoldingValue
}
