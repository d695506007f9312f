package wire

import (
	"errors"
	"net/netip"
)

var (
	errNotIPv4 = errors.New("address is not IPv4")
	errNotIPv6 = errors.New("address is not IPv6")
)

// Ipv4Prefix is an IPv4 address/length pair with every bit outside the mask
// zeroed (i.e. it is always the network address of the prefix it names).
type Ipv4Prefix struct{ p netip.Prefix }

// NewIpv4Prefix validates addr/length and masks addr to the network
// address, rejecting any input whose host bits were already non-zero.
func NewIpv4Prefix(addr netip.Addr, length int) (Ipv4Prefix, error) {
	if !addr.Is4() {
		return Ipv4Prefix{}, invalid("Ipv4Prefix", addr.String(), errNotIPv4)
	}
	if length < 0 || length > 32 {
		return Ipv4Prefix{}, invalid("Ipv4Prefix", addr.String(), ErrBadPrefixLen)
	}
	p := netip.PrefixFrom(addr, length)
	masked := p.Masked()
	if masked.Addr() != addr {
		return Ipv4Prefix{}, invalid("Ipv4Prefix", p.String(), ErrHostBitsSet)
	}
	return Ipv4Prefix{p: masked}, nil
}

func (p Ipv4Prefix) Prefix() netip.Prefix { return p.p }
func (p Ipv4Prefix) Addr() netip.Addr     { return p.p.Addr() }
func (p Ipv4Prefix) Len() int             { return p.p.Bits() }
func (p Ipv4Prefix) String() string       { return p.p.String() }

// Contains reports whether o is contained in p.
func (p Ipv4Prefix) Contains(o Ipv4Prefix) bool {
	return p.Len() <= o.Len() && p.p.Overlaps(o.p) && p.p.Contains(o.Addr())
}

// Ipv6Prefix is the IPv6 analogue of Ipv4Prefix.
type Ipv6Prefix struct{ p netip.Prefix }

// NewIpv6Prefix validates addr/length and masks addr to the network
// address, rejecting any input whose host bits were already non-zero.
func NewIpv6Prefix(addr netip.Addr, length int) (Ipv6Prefix, error) {
	if !addr.Is6() || addr.Is4In6() {
		return Ipv6Prefix{}, invalid("Ipv6Prefix", addr.String(), errNotIPv6)
	}
	if length < 0 || length > 128 {
		return Ipv6Prefix{}, invalid("Ipv6Prefix", addr.String(), ErrBadPrefixLen)
	}
	p := netip.PrefixFrom(addr, length)
	masked := p.Masked()
	if masked.Addr() != addr {
		return Ipv6Prefix{}, invalid("Ipv6Prefix", p.String(), ErrHostBitsSet)
	}
	return Ipv6Prefix{p: masked}, nil
}

func (p Ipv6Prefix) Prefix() netip.Prefix { return p.p }
func (p Ipv6Prefix) Addr() netip.Addr     { return p.p.Addr() }
func (p Ipv6Prefix) Len() int             { return p.p.Bits() }
func (p Ipv6Prefix) String() string       { return p.p.String() }

// Contains reports whether o is contained in p.
func (p Ipv6Prefix) Contains(o Ipv6Prefix) bool {
	return p.Len() <= o.Len() && p.p.Overlaps(o.p) && p.p.Contains(o.Addr())
}

// Prefix is a family-agnostic IP prefix, holding exactly one of an
// Ipv4Prefix or an Ipv6Prefix.
type Prefix struct {
	p netip.Prefix
}

// NewPrefix validates a family-agnostic prefix the same way NewIpv4Prefix/
// NewIpv6Prefix do, dispatching on the address family of addr.
func NewPrefix(addr netip.Addr, length int) (Prefix, error) {
	if addr.Is4() {
		v4, err := NewIpv4Prefix(addr, length)
		if err != nil {
			return Prefix{}, err
		}
		return Prefix{p: v4.p}, nil
	}
	v6, err := NewIpv6Prefix(addr, length)
	if err != nil {
		return Prefix{}, err
	}
	return Prefix{p: v6.p}, nil
}

// FromNetipPrefix wraps an already-masked netip.Prefix without
// re-validating; used internally when a value is known to already satisfy
// the invariant (e.g. decoded from a trusted store).
func FromNetipPrefix(p netip.Prefix) Prefix { return Prefix{p: p.Masked()} }

func (p Prefix) Prefix() netip.Prefix { return p.p }
func (p Prefix) Addr() netip.Addr     { return p.p.Addr() }
func (p Prefix) Len() int             { return p.p.Bits() }
func (p Prefix) IsV4() bool           { return p.p.Addr().Is4() }
func (p Prefix) String() string       { return p.p.String() }
