// Package ingest adapts the reference engine's lock-free ring buffers
// (matching/disruptor_semaphore_batch_safe.go,
// matching/trade_ringbuffer_batch_safe.go) into a front door for the
// synchronous matching core: many goroutines may call Gateway.Submit
// concurrently, but every one of them is serialized through a single
// consumer goroutine that owns the *engine.Engine, preserving spec
// §9's "one submission runs to completion before the next begins."
package ingest

import (
	"sync/atomic"
	_ "unsafe" // for go:linkname

	"auction-engine/internal/arena"
)

//go:linkname semacquireIngest sync.runtime_Semacquire
func semacquireIngest(s *uint32)

//go:linkname semreleaseIngest sync.runtime_Semrelease
func semreleaseIngest(s *uint32, handoff bool, skipframes int)

// Request is one pending Submit call, with a reply channel the calling
// goroutine blocks on.
type Request struct {
	Instr uint32
	Side  arena.Side
	Price int32
	Qty   uint32
	reply chan Response
}

// Response is the Engine.Submit outcome handed back to the caller.
type Response struct {
	Key arena.OrderKey
	Ok  bool
}

// requestRing is a fixed-capacity, power-of-two ring buffer of pending
// requests, built on the teacher's pure-semaphore batch-safe design:
// every slot transition goes through semacquire/semrelease, never CAS,
// giving strict happens-before ordering between publisher and
// consumer.
type requestRing struct {
	buffer     []*Request
	mask       int64
	writeSeq   atomic.Int64
	readSeq    atomic.Int64
	emptySlots uint32
	fullSlots  uint32
}

func newRequestRing(size int) *requestRing {
	if size&(size-1) != 0 {
		panic("ingest: ring size must be a power of 2")
	}
	rb := &requestRing{
		buffer: make([]*Request, size),
		mask:   int64(size - 1),
	}
	for i := 0; i < size; i++ {
		semreleaseIngest(&rb.emptySlots, false, 0)
	}
	return rb
}

func (rb *requestRing) publish(r *Request) {
	semacquireIngest(&rb.emptySlots)
	seq := rb.writeSeq.Add(1) - 1
	rb.buffer[seq&rb.mask] = r
	semreleaseIngest(&rb.fullSlots, false, 0)
}

// requestConsumer is the single-goroutine-owned reader, with the same
// batch local-cache strategy the reference ConsumerBatchSafe uses to
// amortize the semaphore cost across bursts of submissions.
type requestConsumer struct {
	rb         *requestRing
	localCache [128]*Request
	cacheStart int
	cacheEnd   int
}

func (rb *requestRing) newConsumer() *requestConsumer {
	return &requestConsumer{rb: rb}
}

func (cb *requestConsumer) consume() *Request {
	if cb.cacheStart < cb.cacheEnd {
		r := cb.localCache[cb.cacheStart]
		cb.cacheStart++
		return r
	}
	cb.fillCache()
	r := cb.localCache[cb.cacheStart]
	cb.cacheStart++
	return r
}

func (cb *requestConsumer) fillCache() {
	rb := cb.rb

	semacquireIngest(&rb.fullSlots)
	seq := rb.readSeq.Add(1) - 1
	cb.localCache[0] = rb.buffer[seq&rb.mask]
	semreleaseIngest(&rb.emptySlots, false, 0)
	acquired := 1

	maxBatch := 128
	available := int(rb.writeSeq.Load() - rb.readSeq.Load())
	if available > maxBatch-1 {
		available = maxBatch - 1
	}
	for i := 0; i < available; i++ {
		semacquireIngest(&rb.fullSlots)
		seq := rb.readSeq.Add(1) - 1
		cb.localCache[acquired] = rb.buffer[seq&rb.mask]
		semreleaseIngest(&rb.emptySlots, false, 0)
		acquired++
	}

	cb.cacheStart = 0
	cb.cacheEnd = acquired
}
