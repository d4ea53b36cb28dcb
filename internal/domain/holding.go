package domain

import "github.com/shopspring/decimal"

// Holding is a derived, strictly positive net position in a coin.
// ReferencePrice is the price of the first buy of the coin and is only used
// for display.
type Holding struct {
	Coin           string
	NetQuantity    decimal.Decimal
	ReferencePrice decimal.Decimal
}

// DeriveHoldings computes current holdings from a transaction log.
// Logic:
//  1. Walk the log once, accumulating bought and sold quantities per coin
//  2. Coins enter the result in order of their first buy; a coin that was
//     only ever sold never appears
//  3. Coins whose net quantity is zero or less are dropped
//
// The input slice is never modified.
func DeriveHoldings(transactions []Transaction) []Holding {
	type position struct {
		bought         decimal.Decimal
		sold           decimal.Decimal
		referencePrice decimal.Decimal
		hasBuy         bool
	}

	positions := make(map[string]*position)
	order := make([]string, 0)

	for _, tx := range transactions {
		pos, ok := positions[tx.Coin]
		if !ok {
			pos = &position{}
			positions[tx.Coin] = pos
		}

		switch tx.Type {
		case TransactionTypeBuy:
			if !pos.hasBuy {
				pos.hasBuy = true
				pos.referencePrice = tx.Price
				order = append(order, tx.Coin)
			}
			pos.bought = pos.bought.Add(tx.Quantity)
		case TransactionTypeSell:
			pos.sold = pos.sold.Add(tx.Quantity)
		}
	}

	holdings := make([]Holding, 0, len(order))
	for _, coin := range order {
		pos := positions[coin]
		net := pos.bought.Sub(pos.sold)
		if net.LessThanOrEqual(decimal.Zero) {
			continue
		}
		holdings = append(holdings, Holding{
			Coin:           coin,
			NetQuantity:    net,
			ReferencePrice: pos.referencePrice,
		})
	}

	return holdings
}
