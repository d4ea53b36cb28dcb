package cmd

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount in currency, rounded to the currency's minor unit
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// formatSignedMoney is formatMoney with an explicit sign for gains
func formatSignedMoney(amount decimal.Decimal, currency string) string {
	if amount.IsPositive() {
		return "+" + formatMoney(amount, currency)
	}
	return formatMoney(amount, currency)
}

// formatCompact renders large amounts like market caps as 1.3 T
func formatCompact(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "-"
	}
	v, unit := humanize.ComputeSI(amount.InexactFloat64())
	return humanize.FtoaWithDigits(v, 1) + " " + unit
}

// formatWhen shows recent trades relative to now and older ones as a date
func formatWhen(t time.Time) string {
	if time.Since(t) < 7*24*time.Hour {
		return humanize.Time(t)
	}
	return t.Local().Format("2006-01-02 15:04")
}
