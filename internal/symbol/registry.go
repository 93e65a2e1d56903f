// Package symbol implements the bijection between instrument names and
// the dense integer indices the rest of the engine keys off of.
package symbol

import "go.uber.org/zap"

// MaxSymbols caps how many distinct instruments a Registry will assign.
const MaxSymbols = 1_000_000

// Registry maps instrument names to dense 1-based indices. Index 0 is
// reserved for "unknown". A Registry is immutable once the session
// leaves Idle in normal operation, though nothing here enforces that —
// callers (the engine) are expected to stop calling Add after begin.
type Registry struct {
	byName map[string]uint32
	byIdx  map[uint32]string
	next   uint32
	log    *zap.Logger
}

// New returns an empty registry.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		byName: make(map[string]uint32),
		byIdx:  make(map[uint32]string),
		log:    log,
	}
}

// Add is idempotent: it returns the existing index if name is already
// registered, else assigns and returns the next dense index. Returns
// (0, false) once MaxSymbols has been reached.
func (r *Registry) Add(name string) (uint32, bool) {
	if idx, ok := r.byName[name]; ok {
		return idx, true
	}
	if r.next >= MaxSymbols {
		r.log.Warn("symbol registry full", zap.String("name", name))
		return 0, false
	}
	r.next++
	idx := r.next
	r.byName[name] = idx
	r.byIdx[idx] = name
	return idx, true
}

// IndexOf looks up the index for a registered name.
func (r *Registry) IndexOf(name string) (uint32, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// NameOf looks up the name for a registered index.
func (r *Registry) NameOf(idx uint32) (string, bool) {
	name, ok := r.byIdx[idx]
	return name, ok
}
