// Command auction replays two order files through the matching engine:
// load both into one instrument's book, uncross it, then hammer the
// resulting Trading session with random continuous orders, printing
// the same shape of summary lines the reference driver did.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"auction-engine/internal/arena"
	"auction-engine/internal/config"
	"auction-engine/internal/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "auction file1 file2",
		Short: "Replay order files through the single-venue matching engine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile, v)
			if err != nil {
				return errors.Wrap(err, "loading config")
			}
			cfg.Name = loaded.Name
			cfg.Symbol = loaded.Symbol
			cfg.PClose = loaded.PClose
			cfg.Count = loaded.Count
			cfg.LogJSON = loaded.LogJSON
			if cfg.Count < 10000 {
				return errors.Errorf("count must be >= 10000, got %d", cfg.Count)
			}
			return run(cfg, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Name, "name", cfg.Name, "run name, printed in the startup banner")
	flags.Uint32Var(&cfg.Count, "count", cfg.Count, "number of random continuous orders to submit (>= 10000)")
	flags.Int32Var(&cfg.PClose, "pclose", cfg.PClose, "previous close price, used as the uncross tie-break anchor")
	flags.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "instrument symbol to load both files against")
	flags.StringVar(&cfgFile, "config", "", "optional YAML config file")
	flags.BoolVar(&cfg.LogJSON, "log-json", false, "emit structured JSON logs instead of console logs")

	v.BindPFlag("name", flags.Lookup("name"))
	v.BindPFlag("count", flags.Lookup("count"))
	v.BindPFlag("pclose", flags.Lookup("pclose"))
	v.BindPFlag("symbol", flags.Lookup("symbol"))
	v.BindPFlag("log_json", flags.Lookup("log-json"))

	return cmd
}

func run(cfg config.Config, file1, file2 string) error {
	log := newLogger(cfg.LogJSON)
	defer log.Sync()
	log.Info("starting run", zap.String("name", cfg.Name))

	eng := engine.New(log)
	instr, ok := eng.Symbols().IndexOf(cfg.Symbol)
	if !ok {
		log.Warn("symbol not found, defaulting to index 0", zap.String("symbol", cfg.Symbol))
	}

	if !eng.BeginMarket() || !eng.StartMarket() {
		return errors.New("failed to reach PreAuction")
	}

	for _, f := range []string{file1, file2} {
		n, ok := eng.LoadFile(instr, f)
		if !ok {
			return errors.Errorf("failed to load %s", f)
		}
		log.Info("loaded order file", zap.String("file", f), zap.Int("accepted", n))
	}

	start := time.Now()
	last, qty, remain, ok := eng.MatchCross(instr, cfg.PClose)
	crossCost := time.Since(start)
	if !ok {
		return errors.New("match_cross failed")
	}
	fmt.Printf("MatchCross last: %d, volume: %d, remain: %d\n", last, qty, remain)
	fmt.Printf("MatchCross cost %dus\n", crossCost.Microseconds())

	if !eng.ApplyUncross(instr, last, qty) {
		return errors.New("uncross failed")
	}
	if !eng.CallAuction() || !eng.StartTrading() {
		return errors.New("failed to reach Trading")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start = time.Now()
	for i := uint32(0); i < cfg.Count; i++ {
		price := int32(rng.Int31()%10000) + 40000
		qty := rng.Uint32()%200 + 1
		side := arena.Ask
		if rng.Uint32()&1 != 0 {
			side = arena.Bid
		}
		eng.Submit(instr, side, price, qty)
	}
	elapsed := time.Since(start)

	nsPerOp := elapsed.Nanoseconds() / int64(cfg.Count)
	fmt.Printf("TradingContinue cost %dms, %d ns per op\n", elapsed.Milliseconds(), nsPerOp)
	opsPerSec := int64(cfg.Count) * 1_000_000 / elapsed.Microseconds()
	fmt.Printf("TradingContinue order process: %d per second\n", opsPerSec)
	return nil
}

func newLogger(asJSON bool) *zap.Logger {
	if asJSON {
		log, _ := zap.NewProduction()
		return log
	}
	log, _ := zap.NewDevelopment()
	return log
}
