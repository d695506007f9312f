package nat

import "net/netip"

// lookupDst resolves dst in t.DstNat, returning the rewritten address,
// or ok=false when the address has no mapping at all (outside every
// allow prefix) or is excluded (mapped to nil).
func (t *Table) lookupDst(dst netip.Addr) (netip.Addr, bool, error) {
	_, value, ok := t.DstNat.Lookup(dst)
	if !ok || value == nil {
		return netip.Addr{}, false, nil
	}
	mapped, err := Map(dst, value)
	if err != nil {
		return netip.Addr{}, false, err
	}
	return mapped, true, nil
}

// lookupSrc resolves src by trying each peer table src_nat_peers names
// for the most-specific covering prefix, in order, until one yields a
// non-excluded match.
func (t *Table) lookupSrc(src netip.Addr) (netip.Addr, bool, error) {
	_, indices, ok := t.SrcNatPeers.Lookup(src)
	if !ok {
		return netip.Addr{}, false, nil
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.SrcNatPrefixes) {
			continue
		}
		_, value, found := t.SrcNatPrefixes[idx].Table.Lookup(src)
		if !found || value == nil {
			continue
		}
		mapped, err := Map(src, value)
		if err != nil {
			return netip.Addr{}, false, err
		}
		return mapped, true, nil
	}
	return netip.Addr{}, false, nil
}

// ApplyDestNat rewrites dst according to table's compiled dst_nat trie.
// It returns the original address unchanged, and ok=false, when no
// mapping applies.
func ApplyDestNat(table *Table, dst netip.Addr) (netip.Addr, bool, error) {
	mapped, ok, err := table.lookupDst(dst)
	if !ok {
		return dst, false, err
	}
	return mapped, true, nil
}

// ApplySourceNat rewrites src according to table's compiled
// src_nat_peers/src_nat_prefixes tries.
func ApplySourceNat(table *Table, src netip.Addr) (netip.Addr, bool, error) {
	return table.lookupSrc(src)
}
