// Package engine wires the session state machine, symbol registry,
// order arena, per-instrument books, and deal log into the single
// synchronous matching core spec §9 calls for: one submission runs to
// completion before the next begins, so none of the pieces it owns
// need their own locking.
package engine

import (
	"go.uber.org/zap"

	"auction-engine/internal/arena"
	"auction-engine/internal/dealbook"
	"auction-engine/internal/feehook"
	"auction-engine/internal/orderbook"
	"auction-engine/internal/session"
	"auction-engine/internal/symbol"
)

// bootstrapSymbols are the instruments the reference test fixtures load
// against, per spec §6.
var bootstrapSymbols = []string{"cu1906", "cu1908", "cu1909", "cu1912"}

// Engine is one venue: one session, one symbol space, one order arena
// and deal log shared across every instrument, and one book per
// instrument.
type Engine struct {
	sess  *session.Machine
	syms  *symbol.Registry
	ar    *arena.Arena
	deals *dealbook.Book
	books map[uint32]*orderbook.Book
	fee   feehook.Hook
	log   *zap.Logger
}

// New returns an Engine in Idle, with the bootstrap symbol set
// registered.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		sess:  session.New(log),
		syms:  symbol.New(log),
		ar:    arena.New(log),
		deals: dealbook.New(log),
		books: make(map[uint32]*orderbook.Book),
		fee:   feehook.NoFee{},
		log:   log,
	}
	e.sess.OnIdle = func() {
		e.deals.Clear()
		e.books = make(map[uint32]*orderbook.Book)
	}
	for _, name := range bootstrapSymbols {
		e.syms.Add(name)
	}
	return e
}

// SetFeeHook installs a fee schedule; the zero value charges nothing.
func (e *Engine) SetFeeHook(h feehook.Hook) {
	e.fee = h
}

// Symbols exposes the instrument registry for lookups.
func (e *Engine) Symbols() *symbol.Registry { return e.syms }

// Deals exposes the deal log for replay/assertions.
func (e *Engine) Deals() *dealbook.Book { return e.deals }

// State reports the current session state.
func (e *Engine) State() session.State { return e.sess.State() }

// Book returns the live book for instr, or nil if nothing has ever been
// booked against it.
func (e *Engine) Book(instr uint32) *orderbook.Book { return e.books[instr] }

// --- session driver, named after original_source/auction/src/main.rs's
// call sequence ---

func (e *Engine) BeginMarket() bool   { return e.sess.Transition(session.Start) }
func (e *Engine) StartMarket() bool   { return e.sess.Transition(session.PreAuction) }
func (e *Engine) CallAuction() bool   { return e.sess.Transition(session.CallAuction) }
func (e *Engine) StartTrading() bool  { return e.sess.Transition(session.Trading) }
func (e *Engine) PauseTrading() bool  { return e.sess.Transition(session.Pause) }
func (e *Engine) BreakTrading() bool  { return e.sess.Transition(session.Break) }
func (e *Engine) StopMarket() bool    { return e.sess.Transition(session.Stop) }
func (e *Engine) EndMarket() bool     { return e.sess.Transition(session.End) }
func (e *Engine) ResumeTrading() bool { return e.sess.Transition(session.Trading) }

func (e *Engine) bookFor(instr uint32) *orderbook.Book {
	b, ok := e.books[instr]
	if !ok {
		b = orderbook.New(e.log)
		e.books[instr] = b
	}
	return b
}

// Submit books one order (spec §4.G.1): rejected outright unless the
// session CanBook. While Trading it is first run through the continuous
// matcher; whatever remains unfilled (all of it, in PreAuction) rests
// in book[instr].
func (e *Engine) Submit(instr uint32, side arena.Side, price int32, qty uint32) (arena.OrderKey, bool) {
	if !e.sess.CanBook() {
		return arena.Invalid, false
	}
	key, ok := e.ar.Allocate(instr, side, price, qty)
	if !ok {
		return arena.Invalid, false
	}
	if e.sess.IsTrading() {
		e.tryMatch(instr, key)
	}
	ord, _ := e.ar.Get(key)
	if ord.RemainQty() > 0 {
		e.bookFor(instr).Insert(side, key, ord)
	}
	return key, true
}
