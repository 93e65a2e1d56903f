package session

import "testing"

func TestReviewMatchesTable(t *testing.T) {
	cases := []struct {
		from State
		to   State
		want bool
	}{
		{Idle, Start, true},
		{Idle, Trading, false},
		{Start, PreAuction, true},
		{Start, Stop, true},
		{PreAuction, CallAuction, true},
		{PreAuction, Trading, false},
		{CallAuction, Trading, true},
		{CallAuction, PreAuction, false},
		{Trading, Pause, true},
		{Trading, Break, true},
		{Trading, Stop, true},
		{Trading, CallAuction, false},
		{Pause, Trading, true},
		{Pause, Stop, true},
		{Break, Trading, true},
		{Stop, Idle, true},
		{Stop, End, true},
		{Stop, Start, true},
		{End, Idle, true},
		{End, Start, false},
	}
	for _, c := range cases {
		m := New(nil)
		m.state = c.from
		if got := m.Review(c.to); got != c.want {
			t.Errorf("Review(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTransitionSequence(t *testing.T) {
	m := New(nil)
	idleCleared := false
	m.OnIdle = func() { idleCleared = true }

	if !m.Transition(Start) {
		t.Fatal("Idle -> Start should succeed")
	}
	if !m.Transition(PreAuction) {
		t.Fatal("Start -> PreAuction should succeed")
	}
	if !m.Transition(CallAuction) {
		t.Fatal("PreAuction -> CallAuction should succeed")
	}
	if !m.Transition(Trading) {
		t.Fatal("CallAuction -> Trading should succeed")
	}
	if m.Transition(CallAuction) {
		t.Fatal("Trading -> CallAuction should fail")
	}
	if m.State() != Trading {
		t.Fatalf("state should remain Trading after rejected transition, got %s", m.State())
	}

	if !m.Transition(Stop) {
		t.Fatal("Trading -> Stop should succeed")
	}
	if !m.Transition(Idle) {
		t.Fatal("Stop -> Idle should succeed")
	}
	if !idleCleared {
		t.Fatal("OnIdle hook should have fired")
	}
}

func TestPredicates(t *testing.T) {
	m := New(nil)
	if m.CanBook() || m.IsTrading() {
		t.Fatal("Idle should not allow booking or trading")
	}
	m.state = PreAuction
	if !m.CanBook() || m.IsTrading() {
		t.Fatal("PreAuction should allow booking but not trading")
	}
	m.state = Trading
	if !m.CanBook() || !m.IsTrading() {
		t.Fatal("Trading should allow booking and report trading")
	}
}
