package engine

import "auction-engine/internal/arena"

// mayMatch reports whether a resting order at restingPrice may trade
// against an incoming order of the given side priced at incomingPrice:
// a bid crosses a resting ask priced at or below it; an ask crosses a
// resting bid priced at or above it.
func mayMatch(side arena.Side, incomingPrice, restingPrice int32) bool {
	if side == arena.Bid {
		return restingPrice <= incomingPrice
	}
	return restingPrice >= incomingPrice
}

func opposite(side arena.Side) arena.Side {
	if side == arena.Bid {
		return arena.Ask
	}
	return arena.Bid
}

// tryMatch runs the continuous matching walk for one newly-booked
// incoming order (spec §4.G.4): it walks the opposite side best-first
// while may_match holds, consuming one resting order per leg. Each leg
// is its own match-group — BeginMatch is called per resting order
// consumed, not once for the whole walk, matching the per-trade
// grouping the reference trading tape exhibits.
func (e *Engine) tryMatch(instr uint32, takerKey arena.OrderKey) {
	taker, ok := e.ar.Get(takerKey)
	if !ok {
		return
	}
	book := e.bookFor(instr)
	oppSide := opposite(taker.Side)
	tree := book.Side(oppSide)

	var lastKey arena.BookKey
	consumedAny := false
	it := tree.Iterator()
	for taker.RemainQty() > 0 && it.Next() {
		restingKey := it.Value()
		resting, ok := e.ar.Get(restingKey)
		if !ok || resting.RemainQty() == 0 {
			continue
		}
		if !mayMatch(taker.Side, taker.Price, resting.Price) {
			break
		}
		fillQty := min(taker.RemainQty(), resting.RemainQty())

		e.deals.BeginMatch()
		resting.Fill(fillQty, taker.Price)
		taker.Fill(fillQty, taker.Price)
		e.deals.Append(resting.ID, taker.Price, fillQty)
		e.deals.Append(taker.ID, taker.Price, fillQty)

		lastKey = resting.BookKey()
		consumedAny = true
	}
	if consumedAny {
		book.Retain(oppSide, e.ar, lastKey)
	}
}
