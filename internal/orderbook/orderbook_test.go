package orderbook

import (
	"testing"

	"auction-engine/internal/arena"
)

func mustAllocate(t *testing.T, ar *arena.Arena, side arena.Side, price int32, qty uint32) (arena.OrderKey, *arena.Order) {
	t.Helper()
	key, ok := ar.Allocate(1, side, price, qty)
	if !ok {
		t.Fatalf("allocate failed")
	}
	ord, _ := ar.Get(key)
	return key, ord
}

// S6 — aggregated price-level iterator.
func TestPriceQtyIterAggregatesLevels(t *testing.T) {
	ar := arena.New(nil)
	b := New(nil)

	k1, o1 := mustAllocate(t, ar, arena.Bid, 30000, 10)
	b.Insert(arena.Bid, k1, o1)
	k2, o2 := mustAllocate(t, ar, arena.Bid, 30000, 15)
	b.Insert(arena.Bid, k2, o2)
	k3, o3 := mustAllocate(t, ar, arena.Bid, 31000, 18)
	b.Insert(arena.Bid, k3, o3)

	cur := b.PriceQtyIter(arena.Bid, ar)
	price, qty, ok := cur.Next()
	if !ok || price != 31000 || qty != 18 {
		t.Fatalf("first level = (%d, %d, %v), want (31000, 18, true)", price, qty, ok)
	}
	price, qty, ok = cur.Next()
	if !ok || price != 30000 || qty != 25 {
		t.Fatalf("second level = (%d, %d, %v), want (30000, 25, true)", price, qty, ok)
	}
	if _, _, ok = cur.Next(); ok {
		t.Fatal("cursor should be exhausted")
	}
}

func TestAskIterAscendingPrice(t *testing.T) {
	ar := arena.New(nil)
	b := New(nil)
	k1, o1 := mustAllocate(t, ar, arena.Ask, 52000, 5)
	b.Insert(arena.Ask, k1, o1)
	k2, o2 := mustAllocate(t, ar, arena.Ask, 50000, 5)
	b.Insert(arena.Ask, k2, o2)

	cur := b.PriceQtyIter(arena.Ask, ar)
	price, _, _ := cur.Next()
	if price != 50000 {
		t.Fatalf("first ask level = %d, want 50000", price)
	}
	price, _, _ = cur.Next()
	if price != 52000 {
		t.Fatalf("second ask level = %d, want 52000", price)
	}
}

func TestRetainTrimsConsumedPrefix(t *testing.T) {
	ar := arena.New(nil)
	b := New(nil)
	k1, o1 := mustAllocate(t, ar, arena.Bid, 31000, 18) // best bid
	b.Insert(arena.Bid, k1, o1)
	k2, o2 := mustAllocate(t, ar, arena.Bid, 30000, 10)
	b.Insert(arena.Bid, k2, o2)
	k3, o3 := mustAllocate(t, ar, arena.Bid, 29000, 5)
	b.Insert(arena.Bid, k3, o3)

	o1.Fill(18, 31000) // fully filled
	o2.Fill(4, 30000)  // partially filled, should remain

	b.Retain(arena.Bid, ar, o2.BookKey())

	bids, _ := b.Len()
	if bids != 2 {
		t.Fatalf("expected o2 and o3 to remain, got %d entries", bids)
	}
	if _, found := b.Side(arena.Bid).Get(o1.BookKey()); found {
		t.Fatal("fully filled boundary order should have been removed")
	}
	if _, found := b.Side(arena.Bid).Get(o2.BookKey()); !found {
		t.Fatal("partially filled boundary order should remain")
	}
	if _, found := b.Side(arena.Bid).Get(o3.BookKey()); !found {
		t.Fatal("order worse than the boundary should remain")
	}
	_ = k1
	_ = k3
}

func TestValidateRejectsFilledOrderStillResident(t *testing.T) {
	ar := arena.New(nil)
	b := New(nil)
	k, o := mustAllocate(t, ar, arena.Bid, 100, 10)
	b.Insert(arena.Bid, k, o)
	if !b.Validate(ar) {
		t.Fatal("fresh book should validate")
	}
	o.Fill(10, 100)
	if b.Validate(ar) {
		t.Fatal("book with a filled-but-resident order should fail validation")
	}
}

func TestValidateIgnoresCanceledOrders(t *testing.T) {
	ar := arena.New(nil)
	b := New(nil)
	k, o := mustAllocate(t, ar, arena.Bid, 100, 10)
	b.Insert(arena.Bid, k, o)
	o.Cancel()
	if !b.Validate(ar) {
		t.Fatal("a canceled order resting in the book should not fail validation")
	}
}
