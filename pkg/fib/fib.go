package fib

import (
	"net/netip"
	"sync"

	"github.com/fabricgw/gwdataplane/pkg/lpm"
)

// IdKind distinguishes the two namespaces a FibId can come from.
type IdKind int

const (
	IdVrf IdKind = iota
	IdVni
)

// Id keys a Fib by VRF id or VNI.
type Id struct {
	Kind  IdKind
	Value uint32
}

// VrfId returns a Fib Id in the VRF namespace.
func VrfId(tableId uint32) Id { return Id{Kind: IdVrf, Value: tableId} }

// VniId returns a Fib Id in the VNI namespace.
func VniId(vni uint32) Id { return Id{Kind: IdVni, Value: vni} }

// Fib is the Forwarding Information Base for one Id: two LPM tries
// (IPv4, IPv6) from prefix to a shared FibGroup, plus a dedup set of all
// live groups. The default routes for both families are drops installed
// at construction and can only be overwritten, never removed.
type Fib struct {
	Id Id

	mu     sync.Mutex
	groups map[string]*FibGroup

	v4 *lpm.Published[*FibGroup]
	v6 *lpm.Published[*FibGroup]
}

var (
	v4Default = netip.MustParsePrefix("0.0.0.0/0")
	v6Default = netip.MustParsePrefix("::/0")
)

// New constructs a Fib with default-drop roots installed for both
// address families.
func New(id Id) *Fib {
	drop := dropGroup()
	drop.refCount = 2

	v4 := lpm.New[*FibGroup]()
	v4.Insert(v4Default, drop)
	v6 := lpm.New[*FibGroup]()
	v6.Insert(v6Default, drop)

	f := &Fib{
		Id:     id,
		groups: map[string]*FibGroup{drop.key(): drop},
		v4:     lpm.NewPublished(v4),
		v6:     lpm.NewPublished(v6),
	}
	return f
}

func (f *Fib) trieFor(prefix netip.Prefix) *lpm.Published[*FibGroup] {
	if prefix.Addr().Is4() {
		return f.v4
	}
	return f.v6
}

func (f *Fib) isDefault(prefix netip.Prefix) bool {
	return prefix == v4Default || prefix == v6Default
}

// internGroup returns the shared FibGroup for entries, creating and
// interning a new one if no semantically-equal group already exists.
// The caller must hold f.mu.
func (f *Fib) internGroup(entries []FibEntry) *FibGroup {
	squashed := make([]FibEntry, len(entries))
	for i, e := range entries {
		squashed[i] = SquashEgress(e)
	}
	candidate := &FibGroup{Entries: squashed}
	key := candidate.key()
	if existing, ok := f.groups[key]; ok {
		existing.refCount++
		return existing
	}
	candidate.refCount = 1
	f.groups[key] = candidate
	return candidate
}

func (f *Fib) release(g *FibGroup) {
	g.refCount--
	if g.refCount <= 0 {
		delete(f.groups, g.key())
	}
}

// AddRoute installs entries at prefix, interning a shared FibGroup.
// Idempotent overwrite: a prior group at prefix is released.
func (f *Fib) AddRoute(prefix netip.Prefix, entries ...FibEntry) {
	prefix = prefix.Masked()
	f.mu.Lock()
	group := f.internGroup(entries)
	f.mu.Unlock()

	pub := f.trieFor(prefix)
	g := pub.Acquire()
	old, ok := lookupExact(g, prefix)
	g.Release()
	if ok {
		f.mu.Lock()
		f.release(old)
		f.mu.Unlock()
	}
	pub.Queue(lpm.Change[*FibGroup]{Kind: lpm.ChangeInsert, Prefix: prefix, Value: group})
	pub.Publish()
}

// RemoveRoute removes the route at prefix, releasing its FibGroup. The
// default routes cannot be removed; RemoveRoute overwrites them back to
// the well-known drop group instead.
func (f *Fib) RemoveRoute(prefix netip.Prefix) {
	prefix = prefix.Masked()
	pub := f.trieFor(prefix)
	g := pub.Acquire()
	snapGroup, found := lookupExact(g, prefix)
	g.Release()
	if !found {
		return
	}

	f.mu.Lock()
	f.release(snapGroup)
	f.mu.Unlock()

	if f.isDefault(prefix) {
		f.mu.Lock()
		drop := f.internGroup([]FibEntry{{Drop()}})
		f.mu.Unlock()
		pub.Queue(lpm.Change[*FibGroup]{Kind: lpm.ChangeInsert, Prefix: prefix, Value: drop})
		pub.Publish()
		return
	}

	pub.Queue(lpm.Change[*FibGroup]{Kind: lpm.ChangeRemove, Prefix: prefix})
	pub.Publish()
}

// lookupExact finds the group stored at exactly prefix (not the
// most-specific covering match), by walking the guarded trie.
func lookupExact[V any](g lpm.Guard[V], prefix netip.Prefix) (V, bool) {
	matched, val, ok := g.Lookup(prefix.Addr())
	if ok && matched == prefix {
		return val, true
	}
	var zero V
	return zero, false
}

// FlowKey holds the immutable packet fields the flow-hash is computed
// over when a FibGroup has more than one entry.
type FlowKey struct {
	Src, Dst       netip.Addr
	Protocol       uint8
	SrcPort        uint16
	DstPort        uint16
	HasTransportPorts bool
}

// Lookup performs the forwarding lookup for flow.Dst: an LPM lookup
// followed by a flow-hash entry selection when the matched group holds
// more than one entry.
func (f *Fib) Lookup(flow FlowKey) (netip.Prefix, FibEntry, bool) {
	pub := f.v6
	if flow.Dst.Is4() {
		pub = f.v4
	}
	g := pub.Acquire()
	defer g.Release()

	prefix, group, ok := g.Lookup(flow.Dst)
	if !ok {
		return netip.Prefix{}, nil, false
	}
	if len(group.Entries) == 1 {
		return prefix, group.Entries[0], true
	}
	h := flowHash(flow)
	return prefix, group.Entries[h%uint32(len(group.Entries))], true
}
