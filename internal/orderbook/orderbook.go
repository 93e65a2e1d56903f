// Package orderbook implements the per-instrument, price-time ordered
// book: two gods/v2 red-black trees keyed by arena.BookKey, giving O(log
// N) insert and in-order (price-then-time) iteration on both sides.
package orderbook

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
	"go.uber.org/zap"

	"auction-engine/internal/arena"
)

// Tree is the concrete ordered-map type backing each side of a Book.
type Tree = rbt.Tree[arena.BookKey, arena.OrderKey]

// Book holds the bid and ask sides for one instrument.
type Book struct {
	bids *Tree
	asks *Tree
	log  *zap.Logger
}

// New returns an empty book for one instrument.
func New(log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{
		bids: rbt.NewWith[arena.BookKey, arena.OrderKey](arena.Compare),
		asks: rbt.NewWith[arena.BookKey, arena.OrderKey](arena.Compare),
		log:  log,
	}
}

// Side returns the ordered map for one side, for iteration or surgical
// removal.
func (b *Book) Side(side arena.Side) *Tree {
	if side == arena.Bid {
		return b.bids
	}
	return b.asks
}

// Insert adds an order's key to the appropriate side, keyed by its
// BookKey. O(log N).
func (b *Book) Insert(side arena.Side, key arena.OrderKey, ord *arena.Order) {
	b.Side(side).Put(ord.BookKey(), key)
}

// Clear empties both sides.
func (b *Book) Clear() {
	b.bids.Clear()
	b.asks.Clear()
}

// Len reports (bidLen, askLen).
func (b *Book) Len() (int, int) {
	return b.bids.Size(), b.asks.Size()
}

// LevelCursor is a stateful lazy cursor over price-aggregated levels:
// each distinct price is emitted exactly once, in best-to-worst order,
// with the sum of remaining quantity across every order (including
// zero-remainder canceled orders, which still cause the level to be
// emitted) resting at that price.
type LevelCursor struct {
	it           rbt.Iterator[arena.BookKey, arena.OrderKey]
	ar           *arena.Arena
	primed       bool
	pendingPrice int32
	pendingQty   uint32
	done         bool
}

// PriceQtyIter returns a fresh cursor over one side, best price first.
func (b *Book) PriceQtyIter(side arena.Side, ar *arena.Arena) *LevelCursor {
	return &LevelCursor{it: b.Side(side).Iterator(), ar: ar}
}

// Next returns the next (price, aggregatedRemainingQty) pair, or
// ok=false once the side is exhausted.
func (c *LevelCursor) Next() (price int32, qty uint32, ok bool) {
	if c.done {
		return 0, 0, false
	}
	if !c.primed {
		if !c.it.Next() {
			c.done = true
			return 0, 0, false
		}
		ord, _ := c.ar.Get(c.it.Value())
		c.pendingPrice = ord.Price
		c.pendingQty = ord.RemainQty()
		c.primed = true
	}
	price = c.pendingPrice
	qty = c.pendingQty
	for c.it.Next() {
		ord, _ := c.ar.Get(c.it.Value())
		if ord.Price == price {
			qty += ord.RemainQty()
			continue
		}
		c.pendingPrice = ord.Price
		c.pendingQty = ord.RemainQty()
		return price, qty, true
	}
	c.done = true
	return price, qty, true
}

// Retain trims a side after a consuming walk: every entry whose
// priority is better than (or equal to, if fully filled) lastConsumedKey
// is discarded. If lastConsumedKey's order was only partially filled it
// remains, at the same position.
func (b *Book) Retain(side arena.Side, ar *arena.Arena, lastConsumedKey arena.BookKey) {
	tree := b.Side(side)
	var consumed []arena.BookKey
	it := tree.Iterator()
	for it.Next() {
		k := it.Key()
		if arena.Compare(k, lastConsumedKey) < 0 {
			consumed = append(consumed, k)
			continue
		}
		break
	}
	for _, k := range consumed {
		tree.Remove(k)
	}
	if key, found := tree.Get(lastConsumedKey); found {
		if ord, ok := ar.Get(key); ok && ord.IsFilled() {
			tree.Remove(lastConsumedKey)
		}
	}
}

// Validate is a debug invariant check: both sides strictly ordered by
// BookKey, no filled orders remaining, no invalid orders.
func (b *Book) Validate(ar *arena.Arena) bool {
	return b.validateSide(ar, arena.Bid) && b.validateSide(ar, arena.Ask)
}

func (b *Book) validateSide(ar *arena.Arena, side arena.Side) bool {
	tree := b.Side(side)
	it := tree.Iterator()
	var lastKey arena.BookKey
	first := true
	for it.Next() {
		key := it.Key()
		orderKey := it.Value()
		ord, ok := ar.Get(orderKey)
		if !ok {
			b.log.Error("book key resolves to no order", zap.Any("key", key))
			return false
		}
		if ord.IsCanceled() {
			continue
		}
		if ord.IsFilled() {
			b.log.Error("filled order still resident in book", zap.Uint32("oid", ord.ID))
			return false
		}
		if ord.IsInvalid() {
			b.log.Error("invalid order in book", zap.Uint32("oid", ord.ID))
			return false
		}
		if !first && !(arena.Compare(lastKey, key) < 0) {
			b.log.Error("book disorder", zap.Any("at", key))
			return false
		}
		lastKey = key
		first = false
	}
	return true
}
