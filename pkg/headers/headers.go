package headers

// Headers ties together the individual header parsers into the outer
// dispatch cursor described by the package doc comment in errors.go.

import "github.com/fabricgw/gwdataplane/pkg/wire"

// VxlanUdpPort is the well-known UDP destination port that triggers a
// VXLAN parse attempt.
const VxlanUdpPort = 4789

// NetKind identifies which network-layer header, if any, Headers.Net
// holds.
type NetKind int

const (
	NetNone NetKind = iota
	NetIPv4
	NetIPv6
)

// TransportKind identifies which transport-layer header, if any,
// Headers.Transport holds.
type TransportKind int

const (
	TransportNone TransportKind = iota
	TransportTCP
	TransportUDP
	TransportICMPv4
	TransportICMPv6
	TransportTruncatedTCP
	TransportTruncatedUDP
	TransportTruncatedICMPv4
	TransportTruncatedICMPv6
)

// ExtKind identifies which shape a NetExtension entry carries.
type ExtKind int

const (
	ExtKindGeneric ExtKind = iota
	ExtKindFragment
)

// NetExtension is one network extension header (hop-by-hop, destination
// options, authentication, or fragment).
type NetExtension struct {
	Kind     ExtKind
	Generic  Ipv6ExtGeneric
	Fragment Ipv6ExtFragment
}

func (e NetExtension) nextHeader() IPProto {
	if e.Kind == ExtKindFragment {
		return e.Fragment.NextHeader
	}
	return e.Generic.NextHeader
}

func (e NetExtension) size() int {
	if e.Kind == ExtKindFragment {
		return e.Fragment.Size()
	}
	return e.Generic.Size()
}

func (e NetExtension) deparse(buf []byte) (int, error) {
	if e.Kind == ExtKindFragment {
		return e.Fragment.Deparse(buf)
	}
	return e.Generic.Deparse(buf)
}

func isExtensionProto(p IPProto) bool {
	switch p {
	case ProtoIPv6HopByHop, ProtoIPv6Fragment, ProtoAuth:
		return true
	default:
		return false
	}
}

// Headers is the fully parsed header stack attached to a packet.
type Headers struct {
	Eth  Eth
	Vlans []Vlan

	NetKind NetKind
	Ipv4    Ipv4
	Ipv6    Ipv6

	Extensions []NetExtension

	TransportKind   TransportKind
	Tcp             Tcp
	Udp             Udp
	Icmpv4          Icmpv4
	Icmpv6          Icmpv6
	TruncatedTcp    TruncatedTcp
	TruncatedUdp    TruncatedUdp
	TruncatedIcmpv4 TruncatedIcmpv4
	TruncatedIcmpv6 TruncatedIcmpv6

	HasUdpEncap bool
	Vxlan       Vxlan
}

// ParseHeaders runs the outer dispatch cursor over buf: Eth, then up to
// MaxVlans VLAN tags, then the network header indicated by the current
// ethertype, then up to 2 extension headers and/or one transport header
// dispatched on the protocol/next-header field, and finally a VXLAN
// parse attempt when the transport is UDP with destination port 4789.
// Any bytes past what the dispatch chain consumes are left as unparsed
// payload; ParseHeaders returns the number of bytes it consumed.
func ParseHeaders(buf []byte) (Headers, int, error) {
	var h Headers

	eth, n, err := ParseEth(buf)
	if err != nil {
		return Headers{}, 0, err
	}
	h.Eth = eth
	cursor := n
	currentType := eth.EtherType

	for currentType.IsVlanTag() && len(h.Vlans) < MaxVlans {
		v, vn, err := ParseVlan(buf[cursor:])
		if err != nil {
			break
		}
		h.Vlans = append(h.Vlans, v)
		cursor += vn
		currentType = v.EtherType
	}

	var proto IPProto
	switch currentType {
	case wire.EthTypeIPv4:
		ip4, n, err := ParseIpv4(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.NetKind = NetIPv4
		h.Ipv4 = ip4
		cursor += n
		proto = ip4.Protocol
	case wire.EthTypeIPv6:
		ip6, n, err := ParseIpv6(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.NetKind = NetIPv6
		h.Ipv6 = ip6
		cursor += n
		proto = ip6.NextHeader
	default:
		return h, cursor, nil
	}

	for isExtensionProto(proto) && len(h.Extensions) < 2 {
		if proto == ProtoIPv6Fragment {
			frag, n, err := ParseIpv6ExtFragment(buf[cursor:])
			if err != nil {
				return h, cursor, nil
			}
			h.Extensions = append(h.Extensions, NetExtension{Kind: ExtKindFragment, Fragment: frag})
			cursor += n
			proto = frag.NextHeader
			continue
		}
		gen, n, err := ParseIpv6ExtGeneric(proto, buf[cursor:])
		if err != nil {
			return h, cursor, nil
		}
		h.Extensions = append(h.Extensions, NetExtension{Kind: ExtKindGeneric, Generic: gen})
		cursor += n
		proto = gen.NextHeader
	}

	switch proto {
	case ProtoTCP:
		tcp, n, err := ParseTcp(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.TransportKind = TransportTCP
		h.Tcp = tcp
		cursor += n
	case ProtoUDP:
		udp, n, err := ParseUdp(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.TransportKind = TransportUDP
		h.Udp = udp
		cursor += n

		if udp.Dst.Uint16() == VxlanUdpPort {
			if vx, vn, err := ParseVxlan(buf[cursor:]); err == nil {
				h.HasUdpEncap = true
				h.Vxlan = vx
				cursor += vn
			}
		}
	case ProtoICMPv4:
		icmp, n, err := ParseIcmpv4(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.TransportKind = TransportICMPv4
		h.Icmpv4 = icmp
		cursor += n
	case ProtoICMPv6:
		icmp, n, err := ParseIcmpv6(buf[cursor:])
		if err != nil {
			return h, cursor, err
		}
		h.TransportKind = TransportICMPv6
		h.Icmpv6 = icmp
		cursor += n
	}

	return h, cursor, nil
}

// Size returns the total on-wire size of the parsed stack (excluding any
// unparsed trailing payload).
func (h Headers) Size() int {
	n := h.Eth.Size()
	for _, v := range h.Vlans {
		n += v.Size()
	}
	switch h.NetKind {
	case NetIPv4:
		n += h.Ipv4.Size()
	case NetIPv6:
		n += h.Ipv6.Size()
	}
	for _, e := range h.Extensions {
		n += e.size()
	}
	switch h.TransportKind {
	case TransportTCP:
		n += h.Tcp.Size()
	case TransportUDP:
		n += h.Udp.Size()
	case TransportICMPv4:
		n += h.Icmpv4.Size()
	case TransportICMPv6:
		n += h.Icmpv6.Size()
	case TransportTruncatedTCP:
		n += h.TruncatedTcp.Size()
	case TransportTruncatedUDP:
		n += h.TruncatedUdp.Size()
	case TransportTruncatedICMPv4:
		n += h.TruncatedIcmpv4.Size()
	case TransportTruncatedICMPv6:
		n += h.TruncatedIcmpv6.Size()
	}
	if h.HasUdpEncap {
		n += h.Vxlan.Size()
	}
	return n
}

// Deparse serializes the header stack back to buf in wire order.
func (h Headers) Deparse(buf []byte) (int, error) {
	need := h.Size()
	if len(buf) < need {
		return 0, lengthError(need, len(buf))
	}
	cursor := 0

	n, err := h.Eth.Deparse(buf[cursor:])
	if err != nil {
		return 0, err
	}
	cursor += n

	for _, v := range h.Vlans {
		n, err := v.Deparse(buf[cursor:])
		if err != nil {
			return 0, err
		}
		cursor += n
	}

	switch h.NetKind {
	case NetIPv4:
		n, err := h.Ipv4.Deparse(buf[cursor:])
		if err != nil {
			return 0, err
		}
		cursor += n
	case NetIPv6:
		n, err := h.Ipv6.Deparse(buf[cursor:])
		if err != nil {
			return 0, err
		}
		cursor += n
	}

	for _, e := range h.Extensions {
		n, err := e.deparse(buf[cursor:])
		if err != nil {
			return 0, err
		}
		cursor += n
	}

	switch h.TransportKind {
	case TransportTCP:
		n, err = h.Tcp.Deparse(buf[cursor:])
	case TransportUDP:
		n, err = h.Udp.Deparse(buf[cursor:])
	case TransportICMPv4:
		n, err = h.Icmpv4.Deparse(buf[cursor:])
	case TransportICMPv6:
		n, err = h.Icmpv6.Deparse(buf[cursor:])
	case TransportTruncatedTCP:
		n, err = h.TruncatedTcp.Deparse(buf[cursor:])
	case TransportTruncatedUDP:
		n, err = h.TruncatedUdp.Deparse(buf[cursor:])
	case TransportTruncatedICMPv4:
		n, err = h.TruncatedIcmpv4.Deparse(buf[cursor:])
	case TransportTruncatedICMPv6:
		n, err = h.TruncatedIcmpv6.Deparse(buf[cursor:])
	default:
		n, err = 0, nil
	}
	if err != nil {
		return 0, err
	}
	cursor += n

	if h.HasUdpEncap {
		n, err := h.Vxlan.Deparse(buf[cursor:])
		if err != nil {
			return 0, err
		}
		cursor += n
	}

	return cursor, nil
}
