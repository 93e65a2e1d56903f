package arena

import "testing"

func TestAllocateAndGet(t *testing.T) {
	a := New(nil)
	key, ok := a.Allocate(1, Bid, 42000, 10)
	if !ok || key != 1 {
		t.Fatalf("Allocate = (%d, %v), want (1, true)", key, ok)
	}
	ord, ok := a.Get(key)
	if !ok {
		t.Fatal("Get should find the allocated order")
	}
	if ord.ID != 1 || ord.Price != 42000 || ord.Original != 10 {
		t.Fatalf("unexpected order: %+v", ord)
	}
}

func TestGetInvalidKey(t *testing.T) {
	a := New(nil)
	if _, ok := a.Get(Invalid); ok {
		t.Fatal("Get(Invalid) should fail")
	}
	a.Allocate(1, Bid, 100, 1)
	if _, ok := a.Get(OrderKey(99)); ok {
		t.Fatal("Get of unallocated key should fail")
	}
}

func TestFillSaturatesAndRecordsPrice(t *testing.T) {
	a := New(nil)
	key, _ := a.Allocate(1, Ask, 50000, 10)
	ord, _ := a.Get(key)
	if !ord.Fill(6, 50000) {
		t.Fatal("fill should succeed")
	}
	if ord.RemainQty() != 4 {
		t.Fatalf("RemainQty = %d, want 4", ord.RemainQty())
	}
	if !ord.Fill(10, 50500) {
		t.Fatal("second fill should succeed")
	}
	if ord.Filled != ord.Original {
		t.Fatalf("Filled should saturate to Original, got %d/%d", ord.Filled, ord.Original)
	}
	if ord.LastFillPrice != 50500 {
		t.Fatalf("LastFillPrice = %d, want 50500", ord.LastFillPrice)
	}
	if !ord.IsFilled() {
		t.Fatal("order should report filled")
	}
}

func TestCancelZeroesRemainAndBlocksFill(t *testing.T) {
	a := New(nil)
	key, _ := a.Allocate(1, Bid, 100, 5)
	ord, _ := a.Get(key)
	ord.Cancel()
	if ord.RemainQty() != 0 {
		t.Fatalf("RemainQty after cancel = %d, want 0", ord.RemainQty())
	}
	if ord.Fill(1, 100) {
		t.Fatal("fill on canceled order should fail")
	}
}

func TestBookKeyEncoding(t *testing.T) {
	a := New(nil)
	bidKey, _ := a.Allocate(1, Bid, 100, 1)
	askKey, _ := a.Allocate(1, Ask, 100, 1)
	bid, _ := a.Get(bidKey)
	ask, _ := a.Get(askKey)
	if bid.BookKey().SortPrice != -100 {
		t.Fatalf("bid SortPrice = %d, want -100", bid.BookKey().SortPrice)
	}
	if ask.BookKey().SortPrice != 100 {
		t.Fatalf("ask SortPrice = %d, want 100", ask.BookKey().SortPrice)
	}
}

func TestBookKeyOrdering(t *testing.T) {
	lower := BookKey{SortPrice: 100, ID: 5}
	higher := BookKey{SortPrice: 100, ID: 6}
	if !lower.Less(higher) {
		t.Fatal("same price should order by ascending id")
	}
	if Compare(lower, higher) >= 0 {
		t.Fatal("Compare should agree with Less")
	}
}

func TestArenaReserveAndClear(t *testing.T) {
	a := New(nil)
	a.Reserve(1024)
	if cap_ := cap(a.orders); cap_ < 1024 {
		t.Fatalf("Reserve should grow capacity, got %d", cap_)
	}
	a.Allocate(1, Bid, 1, 1)
	a.Clear()
	if a.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", a.Len())
	}
	key, ok := a.Allocate(1, Bid, 1, 1)
	if !ok || key != 1 {
		t.Fatalf("ids should restart from 1 after Clear, got (%d, %v)", key, ok)
	}
}

func TestArenaAllocatesBelowMaxOrders(t *testing.T) {
	// Allocating MaxOrders records is too costly for a unit test, so this
	// only checks that allocations well below the cap succeed and are
	// counted; the exhaustion branch itself is not reached here.
	a := New(nil)
	a.orders = make([]Order, 0, 4)
	for i := 0; i < 3; i++ {
		if _, ok := a.Allocate(1, Bid, 1, 1); !ok {
			t.Fatalf("Allocate %d should succeed below MaxOrders", i)
		}
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
}
