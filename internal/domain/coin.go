package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coin represents a listed asset in the market catalog
type Coin struct {
	ID        string // provider id
	Symbol    string
	Name      string
	Price     decimal.Decimal
	IconURL   string
	Rank      int
	Change    decimal.Decimal // 24h change in percent
	MarketCap decimal.Decimal
}

// Matches reports whether ref names this coin.
// Symbol and name compare case-insensitively, the provider id exactly.
func (c Coin) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return strings.EqualFold(c.Symbol, ref) || strings.EqualFold(c.Name, ref) || c.ID == ref
}

// LedgerKey is the identifier the wallet records for this coin
func (c Coin) LedgerKey() string {
	return strings.ToUpper(c.Symbol)
}
