package engine

import (
	"auction-engine/internal/arena"
	"auction-engine/internal/orderbook"
	"auction-engine/internal/session"
)

// MatchCross computes the opening price/volume/residual for instr
// without mutating any order (spec §4.G.2): a price/volume-maximizing
// uncross over the aggregated price-level iterators, tie-broken toward
// pclose when multiple prices achieve the same maximal volume. Only
// legal in PreAuction; returns ok=false otherwise or when either side
// of the book is empty or does not cross at all.
func (e *Engine) MatchCross(instr uint32, pclose int32) (last int32, qty uint32, residual uint32, ok bool) {
	if e.sess.State() != session.PreAuction {
		return 0, 0, 0, false
	}
	book := e.books[instr]
	if book == nil {
		return 0, 0, 0, false
	}
	bidIter := book.PriceQtyIter(arena.Bid, e.ar)
	askIter := book.PriceQtyIter(arena.Ask, e.ar)
	return uncrossPrice(bidIter, askIter, pclose)
}

// levelIter is the subset of *orderbook.LevelCursor uncrossPrice needs,
// so it can be exercised directly in tests without a live book.
type levelIter interface {
	Next() (price int32, qty uint32, ok bool)
}

func uncrossPrice(bidIter, askIter levelIter, pclose int32) (last int32, qty uint32, residual uint32, ok bool) {
	bp, bv, bidOk := bidIter.Next()
	ap, av, askOk := askIter.Next()
	if !bidOk || !askOk || bp < ap {
		return 0, 0, 0, false
	}
	origBestBid, origBestAsk := bp, ap
	last = pclose

	for bidOk && askOk && bp >= ap {
		switch {
		case bv > av:
			qty += av
			bv -= av
			residual = bv
			last = ap
			ap, av, askOk = askIter.Next()
		case bv < av:
			qty += bv
			av -= bv
			residual = av
			last = bp
			bp, bv, bidOk = bidIter.Next()
		default:
			qty += bv
			residual = 0
			last = bp
			if bp == ap {
				bidOk, askOk = false, false
				continue
			}
			obp, oap := bp, ap
			bp, bv, bidOk = bidIter.Next()
			ap, av, askOk = askIter.Next()
			bEnd := !bidOk || bp < origBestAsk
			aEnd := !askOk || ap > origBestBid
			switch {
			case bEnd && aEnd:
				switch {
				case oap > pclose:
					last = oap
				case obp < pclose:
					last = obp
				default:
					last = pclose
				}
				bidOk, askOk = false, false
			case bEnd:
				last = oap
			case aEnd:
				last = obp
			}
		}
	}
	return last, qty, residual, true
}

// ApplyUncross commits the price MatchCross reported (spec §4.G.3):
// walks each side from the best price, filling eligible orders until
// qty is exhausted, appending one Deal per consumed order per side, all
// tagged with a single match-group no shared across both sides. Returns
// false if either side's total depth is less than qty — the reference
// behavior for an unreachable quantity is to leave whatever partial
// fills were already applied rather than roll back (see DESIGN.md).
func (e *Engine) ApplyUncross(instr uint32, last int32, qty uint32) bool {
	book := e.books[instr]
	if book == nil {
		return false
	}
	e.deals.BeginMatch()
	okBid := e.consumeSide(book, arena.Bid, last, qty)
	okAsk := e.consumeSide(book, arena.Ask, last, qty)
	return okBid && okAsk
}

func (e *Engine) consumeSide(book *orderbook.Book, side arena.Side, price int32, qty uint32) bool {
	tree := book.Side(side)
	remaining := qty
	var lastKey arena.BookKey
	consumed := false

	it := tree.Iterator()
	for remaining > 0 && it.Next() {
		key := it.Value()
		ord, ok := e.ar.Get(key)
		if !ok || ord.RemainQty() == 0 {
			continue
		}
		fillQty := min(remaining, ord.RemainQty())
		ord.Fill(fillQty, price)
		e.deals.Append(ord.ID, price, fillQty)
		remaining -= fillQty
		lastKey = ord.BookKey()
		consumed = true
	}
	if consumed {
		book.Retain(side, e.ar, lastKey)
	}
	return remaining == 0
}
