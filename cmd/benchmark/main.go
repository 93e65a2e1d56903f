// Command benchmark load-generates random continuous orders against
// the matching engine through the concurrent ingest.Gateway, reporting
// order and deal throughput.
package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"auction-engine/internal/arena"
	"auction-engine/internal/engine"
	"auction-engine/internal/ingest"
)

func main() {
	fmt.Println("=== matching engine throughput benchmark ===")

	log := zap.NewNop()
	eng := engine.New(log)
	if !eng.BeginMarket() || !eng.StartMarket() || !eng.CallAuction() || !eng.StartTrading() {
		panic("failed to reach Trading")
	}
	instr, _ := eng.Symbols().IndexOf("cu1906")

	gw := ingest.NewGateway(eng, 1<<14, 1<<14, log)
	defer gw.Close()

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	var orderCount atomic.Int64
	var dealCount atomic.Int64

	go func() {
		sub := gw.Subscribe()
		for {
			if _, ok := sub.TryConsume(); ok {
				dealCount.Add(1)
			} else {
				runtime.Gosched()
			}
		}
	}()

	fmt.Printf("CPUs: %d\n", numCPU)
	fmt.Printf("producer goroutines: %d (NumCPU - 2)\n", numWorkers)
	fmt.Printf("test duration: %v\n\n", testDuration)

	startTime := time.Now()
	stopChan := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			rng := rand.New(rand.NewSource(int64(workerID) + time.Now().UnixNano()))
			orderID := 0
			for {
				select {
				case <-stopChan:
					return
				default:
					side := arena.Bid
					if orderID%2 != 0 {
						side = arena.Ask
					}
					price := int32(50000 + orderID%200)
					gw.Submit(instr, side, price, uint32(rng.Intn(5)+1))
					orderCount.Add(1)
					orderID++
				}
			}
		}(w)
	}

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			elapsed := time.Since(startTime)
			orders := orderCount.Load()
			deals := dealCount.Load()
			fmt.Printf("[%.0fs] orders: %d (%.0f/s) | deals: %d (%.0f/s)\n",
				elapsed.Seconds(), orders, float64(orders)/elapsed.Seconds(),
				deals, float64(deals)/elapsed.Seconds())
		}
	}()

	time.Sleep(testDuration)
	close(stopChan)
	ticker.Stop()
	time.Sleep(500 * time.Millisecond)

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalDeals := dealCount.Load()

	fmt.Println("\n=== results ===")
	fmt.Printf("duration:       %v\n", elapsed)
	fmt.Printf("total orders:   %d\n", totalOrders)
	fmt.Printf("total deals:    %d\n", totalDeals)
	fmt.Printf("order rate:     %.0f orders/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("deal rate:      %.0f deals/sec\n", float64(totalDeals)/elapsed.Seconds())
	fmt.Printf("avg latency:    %.2f us/order\n", elapsed.Seconds()*1e6/float64(totalOrders))

	bids, asks := eng.Book(instr).Len()
	fmt.Println("\n=== final book depth ===")
	fmt.Printf("bid side entries: %d\n", bids)
	fmt.Printf("ask side entries: %d\n", asks)
}
