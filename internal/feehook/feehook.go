// Package feehook answers spec's open question on fee/commission: the
// reference leaves it unspecified, so rather than guess a schedule the
// engine exposes a seam a caller can populate later.
package feehook

import "github.com/shopspring/decimal"

// Hook computes the fee owed on one fill, given its instrument, price
// and quantity. The engine stores the installed hook but does not call
// it when recording deals.
type Hook interface {
	Fee(instrument uint32, price int32, qty uint32) decimal.Decimal
}

// NoFee is the default hook: it charges nothing. The engine uses this
// until a caller supplies a real schedule.
type NoFee struct{}

func (NoFee) Fee(uint32, int32, uint32) decimal.Decimal {
	return decimal.Zero
}
