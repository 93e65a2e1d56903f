package ingest

import (
	"go.uber.org/zap"

	"auction-engine/internal/arena"
	"auction-engine/internal/engine"
)

// Gateway is the concurrent front door onto one *engine.Engine: any
// number of goroutines may call Submit, but a single internal consumer
// goroutine drains the request ring and is the only goroutine that
// ever touches the engine, so the core itself stays free of locks.
type Gateway struct {
	eng      *engine.Engine
	ring     *requestRing
	consumer *requestConsumer
	deals    *dealFeed
	log      *zap.Logger
	done     chan struct{}
}

// NewGateway wraps eng with request and deal ring buffers of the given
// power-of-two capacities and starts the consumer goroutine.
func NewGateway(eng *engine.Engine, requestCapacity, dealCapacity int, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	ring := newRequestRing(requestCapacity)
	g := &Gateway{
		eng:      eng,
		ring:     ring,
		consumer: ring.newConsumer(),
		deals:    newDealFeed(dealCapacity),
		log:      log,
		done:     make(chan struct{}),
	}
	go g.run()
	return g
}

// Submit enqueues an order and blocks until the engine has processed
// it to completion, returning the same (key, ok) Engine.Submit would.
func (g *Gateway) Submit(instr uint32, side arena.Side, price int32, qty uint32) (arena.OrderKey, bool) {
	req := &Request{Instr: instr, Side: side, Price: price, Qty: qty, reply: make(chan Response, 1)}
	g.ring.publish(req)
	resp := <-req.reply
	return resp.Key, resp.Ok
}

// Close signals the consumer goroutine to stop. The goroutine checks the
// signal only between requests: it finishes the request in hand, does
// not process requests still queued in the ring, and does not exit while
// it is waiting on an empty ring.
func (g *Gateway) Close() {
	close(g.done)
}

func (g *Gateway) run() {
	for {
		select {
		case <-g.done:
			return
		default:
		}
		req := g.consumer.consume()
		before := g.eng.Deals().Len()
		key, ok := g.eng.Submit(req.Instr, req.Side, req.Price, req.Qty)
		after := g.eng.Deals().Len()
		for no := before + 1; no <= after; no++ {
			if d, found := g.eng.Deals().Get(uint64(no)); found {
				g.deals.publish(d)
			}
		}
		req.reply <- Response{Key: key, Ok: ok}
	}
}
