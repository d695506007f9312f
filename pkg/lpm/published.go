package lpm

import (
	"net/netip"
	"sync"
	"sync/atomic"
)

// ChangeKind distinguishes the two batched operations a writer can queue
// before publishing.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeRemove
)

// Change is one queued mutation against a Published trie.
type Change[V any] struct {
	Kind   ChangeKind
	Prefix netip.Prefix
	Value  V
}

// snapshot pairs a trie with the publication version it was published
// under. Readers hold a reference to one snapshot for the lifetime of
// their guard.
type snapshot[V any] struct {
	version uint64
	trie    *Trie[V]
}

// Published wraps a Trie in the left/right pattern described for FIB and
// NAT table publication: one writer batches AddFibGroup/DelFibGroup-style
// change operations and publishes them atomically; any number of readers
// take a short-lived Guard and observe a consistent, unchanging snapshot
// that never blocks the writer. Version numbers strictly increase on
// each publication.
type Published[V any] struct {
	current atomic.Pointer[snapshot[V]]
	version atomic.Uint64

	// writer-only state; never touched by readers.
	writerMu sync.Mutex
	pending  *Trie[V]
	log      []Change[V]

	// drain[v%2] tracks outstanding guards taken against the snapshot
	// published at version v. A writer reusing slot v%2 for version v+2
	// must first wait for it to drain, guaranteeing every reader that
	// ever observed generation v has released its guard.
	drain [2]sync.WaitGroup
}

// NewPublished publishes an initial trie (typically pre-populated with a
// well-known default, e.g. a drop route at 0.0.0.0/0) at version 0.
func NewPublished[V any](initial *Trie[V]) *Published[V] {
	p := &Published[V]{pending: initial.Clone()}
	p.current.Store(&snapshot[V]{version: 0, trie: initial})
	return p
}

// Guard is a short-lived read handle on one published snapshot. Callers
// must call Release when done; a Guard must not be retained across a
// blocking operation.
type Guard[V any] struct {
	p       *Published[V]
	version uint64
	trie    *Trie[V]
}

// Acquire takes a guard on the most recently published snapshot.
func (p *Published[V]) Acquire() Guard[V] {
	s := p.current.Load()
	p.drain[s.version%2].Add(1)
	return Guard[V]{p: p, version: s.version, trie: s.trie}
}

// Lookup performs a longest-prefix-match lookup against the guarded
// snapshot.
func (g Guard[V]) Lookup(addr netip.Addr) (netip.Prefix, V, bool) {
	return g.trie.Lookup(addr)
}

// Trie exposes the raw guarded snapshot for callers needing more than
// Lookup (e.g. iteration for diagnostics). The returned trie must not be
// mutated.
func (g Guard[V]) Trie() *Trie[V] { return g.trie }

// Version returns the publication version this guard observed.
func (g Guard[V]) Version() uint64 { return g.version }

// Release must be called exactly once when the caller is done reading.
func (g Guard[V]) Release() {
	g.p.drain[g.version%2].Done()
}

// Queue batches a change operation against the writer's pending copy.
// Only the owning writer goroutine may call Queue/Publish.
func (p *Published[V]) Queue(c Change[V]) {
	switch c.Kind {
	case ChangeInsert:
		p.pending.Insert(c.Prefix, c.Value)
	case ChangeRemove:
		p.pending.Remove(c.Prefix)
	}
	p.log = append(p.log, c)
}

// Publish waits for the generation two versions back to drain, then
// atomically swaps the pending trie in as the new current snapshot,
// bumps the version, and prepares a fresh pending copy by cloning the
// newly published trie. It must be called from the same single-writer
// context as Queue.
func (p *Published[V]) Publish() {
	p.writerMu.Lock()
	defer p.writerMu.Unlock()

	newVersion := p.version.Add(1)
	published := p.pending

	// Slot newVersion%2 last counted guards on generation newVersion-2.
	// Wait for them before the new snapshot starts reusing the slot;
	// guards on the generation just superseded use the other slot.
	p.drain[newVersion%2].Wait()
	p.current.Store(&snapshot[V]{version: newVersion, trie: published})
	p.pending = published.Clone()
	p.log = p.log[:0]
}
