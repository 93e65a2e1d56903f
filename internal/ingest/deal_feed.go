package ingest

import (
	"sync/atomic"

	"auction-engine/internal/dealbook"
)

// dealFeed hands newly-appended deals to non-blocking subscribers,
// adapted from the reference TradeRingBufferBatchSafe: publication is
// still pure-semaphore, but consumption is the CAS-based TryConsume
// variant, so reading never blocks a subscriber. Publication does block
// the matching goroutine while the feed is full, until a subscriber
// drains a slot.
type dealFeed struct {
	buffer     []dealbook.Deal
	mask       int64
	writeSeq   atomic.Int64
	readSeq    atomic.Int64
	emptySlots uint32
	fullSlots  uint32
}

func newDealFeed(size int) *dealFeed {
	if size&(size-1) != 0 {
		panic("ingest: deal feed size must be a power of 2")
	}
	df := &dealFeed{
		buffer: make([]dealbook.Deal, size),
		mask:   int64(size - 1),
	}
	for i := 0; i < size; i++ {
		semreleaseIngest(&df.emptySlots, false, 0)
	}
	return df
}

func (df *dealFeed) publish(d dealbook.Deal) {
	semacquireIngest(&df.emptySlots)
	seq := df.writeSeq.Add(1) - 1
	df.buffer[seq&df.mask] = d
	semreleaseIngest(&df.fullSlots, false, 0)
}

// DealConsumer is a non-blocking reader over the deal feed.
type DealConsumer struct {
	df         *dealFeed
	localCache [128]dealbook.Deal
	cacheStart int
	cacheEnd   int
}

// Subscribe returns a consumer reading from the gateway's deal feed.
// All consumers share the feed's single read position, so each deal is
// delivered to exactly one of them.
func (g *Gateway) Subscribe() *DealConsumer {
	return &DealConsumer{df: g.deals}
}

// TryConsume returns the next unseen deal, or ok=false if none is
// available yet. Never blocks.
func (c *DealConsumer) TryConsume() (dealbook.Deal, bool) {
	if c.cacheStart < c.cacheEnd {
		d := c.localCache[c.cacheStart]
		c.cacheStart++
		return d, true
	}
	if !c.tryFillCache() {
		return dealbook.Deal{}, false
	}
	d := c.localCache[c.cacheStart]
	c.cacheStart++
	return d, true
}

func (c *DealConsumer) tryFillCache() bool {
	df := c.df
	available := int(df.writeSeq.Load() - df.readSeq.Load())
	if available == 0 {
		return false
	}
	if available > 128 {
		available = 128
	}

	acquired := 0
	for i := 0; i < available; i++ {
		slots := atomic.LoadUint32(&df.fullSlots)
		if slots == 0 {
			break
		}
		if !atomic.CompareAndSwapUint32(&df.fullSlots, slots, slots-1) {
			continue
		}
		seq := df.readSeq.Add(1) - 1
		c.localCache[acquired] = df.buffer[seq&df.mask]
		semreleaseIngest(&df.emptySlots, false, 0)
		acquired++
	}
	if acquired == 0 {
		return false
	}
	c.cacheStart = 0
	c.cacheEnd = acquired
	return true
}
