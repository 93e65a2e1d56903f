// Package arena implements the order arena: an append-only, contiguous
// store of order records that hands out stable 32-bit handles (OrderKey)
// instead of long-lived pointers, per spec §4.C/§9.
package arena

import "go.uber.org/zap"

// Side is which book side an order rests on.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// OrderKey is a stable 32-bit handle equal to the order's id. Resolving
// a key to a record is O(1) arena indexing.
type OrderKey uint32

// Invalid is the sentinel "no order" key.
const Invalid OrderKey = 0

// BookKey is the composite sort key used inside an order book:
// (SortPrice, ID). For bids SortPrice = -price (ascending iteration then
// yields descending price); for asks SortPrice = +price. Within a price
// level, the smaller id sorts first, giving FIFO time priority.
type BookKey struct {
	SortPrice int32
	ID        uint32
}

// Less gives BookKey a strict total order: price first, then id.
func (k BookKey) Less(other BookKey) bool {
	if k.SortPrice != other.SortPrice {
		return k.SortPrice < other.SortPrice
	}
	return k.ID < other.ID
}

// Compare matches the signature gods/v2 trees expect.
func Compare(a, b BookKey) int {
	if a.SortPrice != b.SortPrice {
		if a.SortPrice < b.SortPrice {
			return -1
		}
		return 1
	}
	if a.ID == b.ID {
		return 0
	}
	if a.ID < b.ID {
		return -1
	}
	return 1
}

// Order is a single resting or consumed order.
//
// Invariants: Filled <= Original; Canceled implies RemainQty() == 0; id 0
// is the sentinel "invalid" order; once appended, ID and the immutable
// fields (Instrument, Side, Price, Original) never change.
type Order struct {
	ID            uint32
	Instrument    uint32
	Side          Side
	Price         int32
	Original      uint32
	Filled        uint32
	Canceled      bool
	LastFillPrice int32
}

// RemainQty is the unfilled, uncanceled quantity.
func (o *Order) RemainQty() uint32 {
	if o.Canceled || o.ID == 0 {
		return 0
	}
	return o.Original - o.Filled
}

// IsFilled reports whether Filled has reached Original. A canceled
// order has no remaining quantity but is not reported as filled.
func (o *Order) IsFilled() bool {
	return o.Filled == o.Original
}

// IsCanceled reports the canceled flag.
func (o *Order) IsCanceled() bool {
	return o.Canceled
}

// IsInvalid reports the sentinel id or a filled-beyond-original state.
func (o *Order) IsInvalid() bool {
	return o.ID == 0 || o.Filled > o.Original
}

// Fill saturating-adds vol to Filled (never exceeding Original) and
// records the fill price. Fails if the order is canceled or invalid.
func (o *Order) Fill(vol uint32, price int32) bool {
	if o.Canceled || o.ID == 0 {
		return false
	}
	if vol+o.Filled > o.Original {
		o.Filled = o.Original
	} else {
		o.Filled += vol
	}
	o.LastFillPrice = price
	return true
}

// Cancel marks the order canceled; RemainQty becomes 0.
func (o *Order) Cancel() {
	o.Canceled = true
}

// BookKey returns the composite sort key used by internal/orderbook.
func (o *Order) BookKey() BookKey {
	if o.Side == Bid {
		return BookKey{SortPrice: -o.Price, ID: o.ID}
	}
	return BookKey{SortPrice: o.Price, ID: o.ID}
}

// MaxOrders is the hard cap on live orders in one Arena, matching the
// reference design's 60,000,000 ceiling.
const MaxOrders = 60_000_000

// Arena is an append-only, contiguous store of Order records, owned by a
// single Engine instance (spec §9's preferred design — no shared global
// state, no spinlock: the engine processes one submission to completion
// before the next begins, so there is never concurrent mutation).
type Arena struct {
	orders []Order
	log    *zap.Logger
}

// New returns an empty arena.
func New(log *zap.Logger) *Arena {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arena{log: log}
}

// Reserve pre-grows the backing slice to avoid reallocation during
// hot-path inserts.
func (a *Arena) Reserve(n int) {
	if cap(a.orders) >= n {
		return
	}
	grown := make([]Order, len(a.orders), n)
	copy(grown, a.orders)
	a.orders = grown
}

// Allocate appends a new order and returns its key. Fails once MaxOrders
// live records have been appended.
func (a *Arena) Allocate(instr uint32, side Side, price int32, qty uint32) (OrderKey, bool) {
	if len(a.orders) >= MaxOrders {
		a.log.Warn("order arena exhausted", zap.Int("count", len(a.orders)))
		return Invalid, false
	}
	id := uint32(len(a.orders) + 1)
	a.orders = append(a.orders, Order{
		ID:         id,
		Instrument: instr,
		Side:       side,
		Price:      price,
		Original:   qty,
	})
	return OrderKey(id), true
}

// Get resolves a key to its order record. O(1).
func (a *Arena) Get(key OrderKey) (*Order, bool) {
	if key == Invalid || int(key) > len(a.orders) {
		return nil, false
	}
	return &a.orders[key-1], true
}

// Clear drops all records and resets the id counter to 0.
func (a *Arena) Clear() {
	a.orders = a.orders[:0]
}

// Len reports the number of records ever allocated (including filled or
// canceled ones still resident in the arena).
func (a *Arena) Len() int {
	return len(a.orders)
}
