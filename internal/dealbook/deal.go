// Package dealbook implements the deal log: an append-only, strictly
// ordered trade tape with a per-fill sequence number and a per-match
// group number shared by every Deal born from one matching event.
package dealbook

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deal is one counterparty's side of a fill. One trade produces two
// Deal records (one per counterparty) sharing the same MatchNo.
type Deal struct {
	No      uint64
	MatchNo uint32
	OrderID uint32
	Price   int32
	Qty     uint32

	// CorrelationID is an optional external-facing id, generated lazily
	// by WithCorrelationID — it plays no part in the ordering or
	// equality semantics spec §4.E requires.
	CorrelationID uuid.UUID
}

// Equal compares the fields spec §4.E's replay tests assert on.
func (d Deal) Equal(other Deal) bool {
	return d.No == other.No && d.MatchNo == other.MatchNo &&
		d.OrderID == other.OrderID && d.Price == other.Price && d.Qty == other.Qty
}

// Book is the append-only deal log, owned by a single Engine instance.
type Book struct {
	deals   []Deal
	matchNo uint32
	log     *zap.Logger
}

// New returns an empty deal log.
func New(log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{log: log}
}

// BeginMatch increments the global match-group counter and returns the
// new group id. Call once per matching event (one uncross, or one
// resting order consumed by a continuous match) before appending its
// deals.
func (b *Book) BeginMatch() uint32 {
	b.matchNo++
	return b.matchNo
}

// CurrentMatchNo returns the match-group id in effect (the one returned
// by the most recent BeginMatch call).
func (b *Book) CurrentMatchNo() uint32 {
	return b.matchNo
}

// Append assigns the next deal sequence number, tags it with the
// current match-group no, appends it, and returns the sequence number.
func (b *Book) Append(orderID uint32, price int32, qty uint32) uint64 {
	no := uint64(len(b.deals) + 1)
	b.deals = append(b.deals, Deal{
		No:      no,
		MatchNo: b.matchNo,
		OrderID: orderID,
		Price:   price,
		Qty:     qty,
	})
	return no
}

// WithCorrelationID stamps the deal at sequence no with a fresh UUID and
// returns it, for callers that need an external correlation id.
func (b *Book) WithCorrelationID(no uint64) (uuid.UUID, bool) {
	if _, ok := b.Get(no); !ok {
		return uuid.UUID{}, false
	}
	id := uuid.New()
	b.deals[no-1].CorrelationID = id
	return id, true
}

// Get looks up a deal by its sequence number (1-based).
func (b *Book) Get(no uint64) (Deal, bool) {
	if no == 0 || no > uint64(len(b.deals)) {
		return Deal{}, false
	}
	return b.deals[no-1], true
}

// Len reports how many deals have been appended.
func (b *Book) Len() int {
	return len(b.deals)
}

// Clear resets both counters and the buffer. Called when the session
// enters Idle.
func (b *Book) Clear() {
	b.deals = b.deals[:0]
	b.matchNo = 0
}

// Equals does a structural comparison against expected, skipping any
// expected entries whose No is zero (sentinel padding), matching the
// reference DealPool::eq semantics.
func (b *Book) Equals(expected []Deal) bool {
	for _, want := range expected {
		if want.No == 0 {
			continue
		}
		got, ok := b.Get(want.No)
		if !ok {
			b.log.Warn("deal not found", zap.Uint64("no", want.No))
			return false
		}
		if !got.Equal(want) {
			b.log.Warn("deal mismatch", zap.Uint64("no", want.No))
			return false
		}
	}
	return true
}
