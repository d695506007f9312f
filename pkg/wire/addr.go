package wire

import "net/netip"

// UnicastIpv4Addr is an IPv4 address guaranteed not to be multicast or
// unspecified.
type UnicastIpv4Addr struct{ addr netip.Addr }

// NewUnicastIpv4Addr validates a and wraps it.
func NewUnicastIpv4Addr(a netip.Addr) (UnicastIpv4Addr, error) {
	if !a.Is4() {
		return UnicastIpv4Addr{}, invalid("UnicastIpv4Addr", a.String(), errNotIPv4)
	}
	if a.IsMulticast() || !a.IsValid() || a == netip.IPv4Unspecified() {
		return UnicastIpv4Addr{}, invalid("UnicastIpv4Addr", a.String(), ErrNotUnicast)
	}
	return UnicastIpv4Addr{addr: a}, nil
}

func (u UnicastIpv4Addr) Addr() netip.Addr { return u.addr }
func (u UnicastIpv4Addr) String() string   { return u.addr.String() }

// UnicastIpv6Addr is an IPv6 address guaranteed not to be multicast or
// unspecified.
type UnicastIpv6Addr struct{ addr netip.Addr }

// NewUnicastIpv6Addr validates a and wraps it.
func NewUnicastIpv6Addr(a netip.Addr) (UnicastIpv6Addr, error) {
	if !a.Is6() || a.Is4In6() {
		return UnicastIpv6Addr{}, invalid("UnicastIpv6Addr", a.String(), errNotIPv6)
	}
	if a.IsMulticast() || !a.IsValid() || a == netip.IPv6Unspecified() {
		return UnicastIpv6Addr{}, invalid("UnicastIpv6Addr", a.String(), ErrNotUnicast)
	}
	return UnicastIpv6Addr{addr: a}, nil
}

func (u UnicastIpv6Addr) Addr() netip.Addr { return u.addr }
func (u UnicastIpv6Addr) String() string   { return u.addr.String() }
