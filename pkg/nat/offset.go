package nat

import (
	"errors"
	"math/big"
	"net/netip"
	"sort"
)

// addrRange is an inclusive [start, end] range of addresses, both as
// big.Int so IPv4 and IPv6 share one representation.
type addrRange struct {
	start, end *big.Int
}

func (r addrRange) size() *big.Int {
	return new(big.Int).Add(new(big.Int).Sub(r.end, r.start), big.NewInt(1))
}

func addrToBig(a netip.Addr) *big.Int {
	if a.Is4() {
		b := a.As4()
		return new(big.Int).SetBytes(b[:])
	}
	b := a.As16()
	return new(big.Int).SetBytes(b[:])
}

func bigToAddr(v *big.Int, is6 bool) netip.Addr {
	if !is6 {
		var b [4]byte
		v.FillBytes(b[:])
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	v.FillBytes(b[:])
	return netip.AddrFrom16(b)
}

func prefixRange(p netip.Prefix) addrRange {
	start := addrToBig(p.Addr())
	size := prefixSize(p)
	end := new(big.Int).Add(start, new(big.Int).Sub(size, big.NewInt(1)))
	return addrRange{start: start, end: end}
}

func prefixSize(p netip.Prefix) *big.Int {
	bits := 32
	if p.Addr().Is6() {
		bits = 128
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(bits-p.Bits()))
}

// segments returns the addrRanges covering allow prefixes sorted by
// start address, with any exclude range fully contained in one allow
// prefix carved out — computed without ever materializing a flat
// address list, per spec.md §4.4's explicit requirement.
func segments(allow, exclude []netip.Prefix) []addrRange {
	allowRanges := make([]addrRange, len(allow))
	for i, p := range allow {
		allowRanges[i] = prefixRange(p)
	}
	sort.Slice(allowRanges, func(i, j int) bool { return allowRanges[i].start.Cmp(allowRanges[j].start) < 0 })

	excludeRanges := make([]addrRange, len(exclude))
	for i, p := range exclude {
		excludeRanges[i] = prefixRange(p)
	}
	sort.Slice(excludeRanges, func(i, j int) bool { return excludeRanges[i].start.Cmp(excludeRanges[j].start) < 0 })

	var out []addrRange
	for _, a := range allowRanges {
		cursor := a.start
		for _, e := range excludeRanges {
			if e.start.Cmp(a.start) < 0 || e.end.Cmp(a.end) > 0 {
				continue // not contained in this allow range
			}
			if e.start.Cmp(cursor) > 0 {
				out = append(out, addrRange{start: cursor, end: new(big.Int).Sub(e.start, big.NewInt(1))})
			}
			next := new(big.Int).Add(e.end, big.NewInt(1))
			if next.Cmp(cursor) > 0 {
				cursor = next
			}
		}
		if cursor.Cmp(a.end) <= 0 {
			out = append(out, addrRange{start: cursor, end: a.end})
		}
	}
	return out
}

// ErrAddrNotInSet is the sentinel an AddrNotInSetError unwraps to.
var ErrAddrNotInSet = errors.New("nat: address not in the expected set")

// AddrNotInSetError reports that an address is not covered by the
// allow-minus-exclude ranges being indexed.
type AddrNotInSetError struct{ Addr netip.Addr }

func (e *AddrNotInSetError) Error() string {
	return "nat: address " + e.Addr.String() + " is not in the expected address set"
}
func (e *AddrNotInSetError) Unwrap() error { return ErrAddrNotInSet }

// OffsetOf returns addr's position within ips_as_list(allow, exclude).
func OffsetOf(addr netip.Addr, allow, exclude []netip.Prefix) (*big.Int, error) {
	v := addrToBig(addr)
	cumulative := big.NewInt(0)
	for _, seg := range segments(allow, exclude) {
		if v.Cmp(seg.start) >= 0 && v.Cmp(seg.end) <= 0 {
			return new(big.Int).Add(cumulative, new(big.Int).Sub(v, seg.start)), nil
		}
		cumulative.Add(cumulative, seg.size())
	}
	return nil, &AddrNotInSetError{Addr: addr}
}

// AddrAtOffset returns the address at offset within
// ips_as_list(allow, exclude).
func AddrAtOffset(offset *big.Int, allow, exclude []netip.Prefix, is6 bool) (netip.Addr, error) {
	cumulative := big.NewInt(0)
	for _, seg := range segments(allow, exclude) {
		size := seg.size()
		next := new(big.Int).Add(cumulative, size)
		if offset.Cmp(next) < 0 {
			v := new(big.Int).Add(seg.start, new(big.Int).Sub(offset, cumulative))
			return bigToAddr(v, is6), nil
		}
		cumulative = next
	}
	return netip.Addr{}, &AddrNotInSetError{}
}

// Map translates addr through value: finds its offset in the current
// set and returns the address at that same offset in the target set.
func Map(addr netip.Addr, value *TrieValue) (netip.Addr, error) {
	offset, err := OffsetOf(addr, value.CurrentPrefixes, value.CurrentExcludes)
	if err != nil {
		return netip.Addr{}, err
	}
	is6 := len(value.TargetPrefixes) > 0 && value.TargetPrefixes[0].Addr().Is6()
	return AddrAtOffset(offset, value.TargetPrefixes, value.TargetExcludes, is6)
}
