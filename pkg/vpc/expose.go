package vpc

import (
	"math/big"
	"net/netip"
)

// Validate runs spec.md §3's five checks against e, returning the first
// one that fails.
func (e Expose) Validate() error {
	if err := e.checkSameFamily(); err != nil {
		return err
	}
	if err := e.checkNoOverlaps(); err != nil {
		return err
	}
	if err := e.checkExcludesContained(); err != nil {
		return err
	}
	if err := e.checkExcludesDontEmptyAllow(); err != nil {
		return err
	}
	if err := e.checkSizesMatch(); err != nil {
		return err
	}
	return nil
}

// (a) all prefixes are the same IP family.
func (e Expose) checkSameFamily() error {
	var seen bool
	var is4 bool
	for _, set := range [][]netip.Prefix{e.Ips, e.Nots, e.As, e.NotAs} {
		for _, p := range set {
			if !seen {
				is4 = p.Addr().Is4()
				seen = true
				continue
			}
			if p.Addr().Is4() != is4 {
				return configError(InconsistentIpVersion, "expose mixes IPv4 and IPv6 prefixes")
			}
		}
	}
	return nil
}

// (b) within each set, prefixes do not overlap.
func (e Expose) checkNoOverlaps() error {
	for _, set := range [][]netip.Prefix{e.Ips, e.Nots, e.As, e.NotAs} {
		if !noOverlaps(set) {
			return configError(OverlappingPrefixes, "a prefix set contains overlapping entries")
		}
	}
	return nil
}

// (c) excludes are contained in their corresponding allow set.
func (e Expose) checkExcludesContained() error {
	for _, not := range e.Nots {
		if !containedIn(not, e.Ips) {
			return configError(OutOfRangeExclusionPrefix, "nots prefix "+not.String()+" is not contained in ips")
		}
	}
	for _, notA := range e.NotAs {
		if !containedIn(notA, e.As) {
			return configError(OutOfRangeExclusionPrefix, "not_as prefix "+notA.String()+" is not contained in as")
		}
	}
	return nil
}

// (d) excludes do not remove all addresses of the allow set.
func (e Expose) checkExcludesDontEmptyAllow() error {
	if len(e.Ips) > 0 && setSize(e.Ips).Cmp(setSize(e.Nots)) <= 0 {
		return configError(ExcludedAllPrefixes, "nots removes every address of ips")
	}
	if len(e.As) > 0 && setSize(e.As).Cmp(setSize(e.NotAs)) <= 0 {
		return configError(ExcludedAllPrefixes, "not_as removes every address of as")
	}
	return nil
}

// (e) if as is non-empty, |ips|-|nots| = |as|-|not_as| (address-preserving
// static NAT).
func (e Expose) checkSizesMatch() error {
	if len(e.As) == 0 {
		return nil
	}
	left := new(big.Int).Sub(setSize(e.Ips), setSize(e.Nots))
	right := new(big.Int).Sub(setSize(e.As), setSize(e.NotAs))
	if left.Cmp(right) != 0 {
		return configError(MismatchedPrefixSizes, "|ips|-|nots| != |as|-|not_as|")
	}
	return nil
}

func noOverlaps(prefixes []netip.Prefix) bool {
	for i := 0; i < len(prefixes); i++ {
		for j := i + 1; j < len(prefixes); j++ {
			if prefixes[i].Overlaps(prefixes[j]) {
				return false
			}
		}
	}
	return true
}

// containedIn reports whether inner is fully covered by one prefix of
// outers: a less-or-equally specific outer prefix that overlaps inner.
func containedIn(inner netip.Prefix, outers []netip.Prefix) bool {
	for _, o := range outers {
		if o.Bits() <= inner.Bits() && o.Overlaps(inner) {
			return true
		}
	}
	return false
}

// prefixSize returns the number of addresses covered by p.
func prefixSize(p netip.Prefix) *big.Int {
	bits := 32
	if p.Addr().Is6() {
		bits = 128
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(bits-p.Bits()))
}

// setSize returns the number of addresses covered by prefixes, assumed
// pairwise non-overlapping.
func setSize(prefixes []netip.Prefix) *big.Int {
	total := new(big.Int)
	for _, p := range prefixes {
		total.Add(total, prefixSize(p))
	}
	return total
}
