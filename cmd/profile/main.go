// Command profile runs the cmd/benchmark load (with every order at
// quantity 1) under CPU profiling, for drilling into matching-engine hot
// paths with `go tool pprof`.
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"auction-engine/internal/arena"
	"auction-engine/internal/engine"
	"auction-engine/internal/ingest"
)

func main() {
	cpuFile, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	defer cpuFile.Close()

	pprof.StartCPUProfile(cpuFile)
	defer pprof.StopCPUProfile()

	fmt.Println("=== profiling run ===")
	fmt.Println("writing CPU profile to cpu.prof")

	log := zap.NewNop()
	eng := engine.New(log)
	if !eng.BeginMarket() || !eng.StartMarket() || !eng.CallAuction() || !eng.StartTrading() {
		panic("failed to reach Trading")
	}
	instr, _ := eng.Symbols().IndexOf("cu1906")

	gw := ingest.NewGateway(eng, 1<<14, 1<<14, log)
	defer gw.Close()

	duration := 10 * time.Second
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
	fmt.Printf("producer goroutines: %d\n", numWorkers)
	fmt.Printf("duration: %v\n\n", duration)

	startTime := time.Now()
	stopChan := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
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
					gw.Submit(instr, side, price, 1)
					orderCount.Add(1)
					orderID++
				}
			}
		}(w)
	}

	time.Sleep(duration)
	close(stopChan)
	time.Sleep(500 * time.Millisecond)

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalDeals := dealCount.Load()

	fmt.Println("\n=== results ===")
	fmt.Printf("total orders: %d\n", totalOrders)
	fmt.Printf("total deals:  %d\n", totalDeals)
	fmt.Printf("order rate:   %.0f orders/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("deal rate:    %.0f deals/sec\n", float64(totalDeals)/elapsed.Seconds())

	fmt.Println("\nanalyze with:")
	fmt.Println("  go tool pprof -http=:8080 cpu.prof")
	fmt.Println("  (then) top10")
	fmt.Println("  (then) list <function>")
}
