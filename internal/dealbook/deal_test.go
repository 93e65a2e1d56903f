package dealbook

import "testing"

func TestAppendIsMonotonic(t *testing.T) {
	b := New(nil)
	b.BeginMatch()
	no1 := b.Append(4, 43500, 45)
	no2 := b.Append(8, 43500, 45)
	if no1 != 1 || no2 != 2 {
		t.Fatalf("sequence nos = %d, %d, want 1, 2", no1, no2)
	}
	d1, _ := b.Get(no1)
	d2, _ := b.Get(no2)
	if d1.MatchNo != d2.MatchNo {
		t.Fatal("deals in one BeginMatch span should share a match-group no")
	}
}

func TestMatchNoIncreasesAcrossEvents(t *testing.T) {
	b := New(nil)
	m1 := b.BeginMatch()
	b.Append(1, 100, 1)
	m2 := b.BeginMatch()
	b.Append(2, 100, 1)
	if m2 <= m1 {
		t.Fatalf("match no should strictly increase: %d then %d", m1, m2)
	}
}

func TestClearResetsCountersAndBuffer(t *testing.T) {
	b := New(nil)
	b.BeginMatch()
	b.Append(1, 100, 1)
	b.Clear()
	if b.Len() != 0 || b.CurrentMatchNo() != 0 {
		t.Fatalf("after Clear: Len=%d MatchNo=%d, want 0, 0", b.Len(), b.CurrentMatchNo())
	}
	b.BeginMatch()
	no := b.Append(1, 100, 1)
	if no != 1 {
		t.Fatalf("sequence should restart at 1 after Clear, got %d", no)
	}
}

func TestEqualsSkipsZeroSentinel(t *testing.T) {
	b := New(nil)
	b.BeginMatch()
	b.Append(4, 43500, 45)
	b.Append(8, 43500, 45)
	expected := []Deal{
		{No: 1, MatchNo: 1, OrderID: 4, Price: 43500, Qty: 45},
		{No: 2, MatchNo: 1, OrderID: 8, Price: 43500, Qty: 45},
		{No: 0},
	}
	if !b.Equals(expected) {
		t.Fatal("Equals should match the appended deals")
	}
}

func TestEqualsDetectsMismatch(t *testing.T) {
	b := New(nil)
	b.BeginMatch()
	b.Append(4, 43500, 45)
	expected := []Deal{{No: 1, MatchNo: 1, OrderID: 4, Price: 99999, Qty: 45}}
	if b.Equals(expected) {
		t.Fatal("Equals should detect a price mismatch")
	}
}
