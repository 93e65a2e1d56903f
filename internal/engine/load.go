package engine

import (
	"bufio"
	"io"

	"auction-engine/internal/loader"
)

// Load reads newline-delimited "local_id,price,qty,side" records from r
// and submits each as an order against instr (spec §4.G.5). Malformed
// lines are logged at warn and skipped; accepted counts only orders that
// were submitted. Load only reports false on an underlying read error,
// not on malformed input.
func (e *Engine) Load(instr uint32, r io.Reader) (accepted int, ok bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		_, price, qty, side, valid := loader.ParseLine(line)
		if !valid {
			e.log.Warn("skipping malformed order line")
			continue
		}
		if _, submitted := e.Submit(instr, side, price, qty); submitted {
			accepted++
		}
	}
	if err := scanner.Err(); err != nil {
		return accepted, false
	}
	return accepted, true
}

// LoadFile opens path (transparently decompressing a .zst suffix) and
// loads it via Load.
func (e *Engine) LoadFile(instr uint32, path string) (accepted int, ok bool) {
	f, err := loader.Open(path)
	if err != nil {
		e.log.Error("failed to open order file")
		return 0, false
	}
	defer f.Close()
	return e.Load(instr, f)
}
