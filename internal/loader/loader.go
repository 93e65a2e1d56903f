// Package loader implements the order-file external interface spec §6:
// line-oriented "local_id,price,qty,side" records, transparently
// decompressed when the file carries a .zst suffix.
package loader

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"auction-engine/internal/arena"
)

// Open returns a ReadCloser for path, transparently decompressing a
// trailing .zst suffix. Plain files are returned unmodified.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open order file %s", path)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "init zstd reader for %s", path)
	}
	return &zstdFile{dec: dec, f: f}, nil
}

type zstdFile struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdFile) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdFile) Close() error {
	z.dec.Close()
	return z.f.Close()
}

// ParseLine parses one "local_id , price , qty , side" record. side
// nonzero means bid, zero means ask. Whitespace around fields is
// tolerated. ok is false for any malformed line (wrong field count,
// unparsable integer, non-positive qty); Engine.Load logs such a line
// at warn and skips it.
func ParseLine(line string) (localID int64, price int32, qty uint32, side arena.Side, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return 0, 0, 0, 0, false
	}
	idv, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	pricev, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 32)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	qtyv, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil || qtyv == 0 {
		return 0, 0, 0, 0, false
	}
	sidev, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	s := arena.Ask
	if sidev != 0 {
		s = arena.Bid
	}
	return idv, int32(pricev), uint32(qtyv), s, true
}
