// Package ingest implements the route-ingester: the Unix-datagram wire
// schema and the single-threaded actor that decodes it and mutates the
// RIB. Each datagram is one self-delimited message; Unix SOCK_DGRAM
// preserves message boundaries, so no outer length frame is needed.
package ingest

import (
	"encoding/binary"
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/rib"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// MsgKind discriminates the wire message union.
type MsgKind uint8

const (
	MsgConnect MsgKind = iota + 1
	MsgAddRoute
	MsgDelRoute
	MsgAddRouterMac
	MsgDelRouterMac
	MsgAddInterfaceAddress
	MsgDelInterfaceAddress
	MsgResponse
	MsgNotification
)

// ResultCode is the outcome a Response carries back to the routing
// daemon for a request it sent.
type ResultCode uint8

const (
	ResultOk ResultCode = iota
	ResultInvalidRequest
	ResultFailure
)

func (r ResultCode) String() string {
	switch r {
	case ResultOk:
		return "Ok"
	case ResultInvalidRequest:
		return "InvalidRequest"
	case ResultFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// ProtocolVersion is the ingester wire schema's major.minor tuple,
// exchanged on Connect and rejected on mismatch.
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// CurrentProtocolVersion is the schema this package implements.
var CurrentProtocolVersion = ProtocolVersion{Major: 1, Minor: 0}

// Header is the common prefix of every request and response: which
// message this is, and the sequence number a Response echoes back.
type Header struct {
	Kind MsgKind
	Seq  uint64
}

const headerSize = 1 + 8

func encodeHeader(buf []byte, kind MsgKind, seq uint64) {
	buf[0] = byte(kind)
	binary.BigEndian.PutUint64(buf[1:9], seq)
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, lengthError(headerSize, len(buf))
	}
	return Header{Kind: MsgKind(buf[0]), Seq: binary.BigEndian.Uint64(buf[1:9])}, nil
}

// Connect carries the submitter's protocol version for negotiation.
type Connect struct {
	Header
	Version ProtocolVersion
}

func (c Connect) Encode() []byte {
	buf := make([]byte, headerSize+4)
	encodeHeader(buf, MsgConnect, c.Seq)
	binary.BigEndian.PutUint16(buf[headerSize:headerSize+2], c.Version.Major)
	binary.BigEndian.PutUint16(buf[headerSize+2:headerSize+4], c.Version.Minor)
	return buf
}

func decodeConnect(h Header, buf []byte) (Connect, error) {
	if len(buf) < headerSize+4 {
		return Connect{}, lengthError(headerSize+4, len(buf))
	}
	return Connect{
		Header: h,
		Version: ProtocolVersion{
			Major: binary.BigEndian.Uint16(buf[headerSize : headerSize+2]),
			Minor: binary.BigEndian.Uint16(buf[headerSize+2 : headerSize+4]),
		},
	}, nil
}

// encodePrefix/decodePrefix use a 1-byte family discriminant (4 or 6)
// followed by the address bytes and a 1-byte prefix length, so both
// families share one wire shape.
func encodedPrefixSize(p netip.Prefix) int {
	if p.Addr().Is4() {
		return 1 + 4 + 1
	}
	return 1 + 16 + 1
}

func putPrefix(buf []byte, p netip.Prefix) int {
	addr := p.Addr()
	if addr.Is4() {
		buf[0] = 4
		b := addr.As4()
		copy(buf[1:5], b[:])
		buf[5] = byte(p.Bits())
		return 6
	}
	buf[0] = 6
	b := addr.As16()
	copy(buf[1:17], b[:])
	buf[17] = byte(p.Bits())
	return 18
}

func getPrefix(buf []byte) (netip.Prefix, int, error) {
	if len(buf) < 1 {
		return netip.Prefix{}, 0, lengthError(1, len(buf))
	}
	switch buf[0] {
	case 4:
		if len(buf) < 6 {
			return netip.Prefix{}, 0, lengthError(6, len(buf))
		}
		addr := netip.AddrFrom4([4]byte(buf[1:5]))
		return netip.PrefixFrom(addr, int(buf[5])), 6, nil
	case 6:
		if len(buf) < 18 {
			return netip.Prefix{}, 0, lengthError(18, len(buf))
		}
		addr := netip.AddrFrom16([16]byte(buf[1:17]))
		return netip.PrefixFrom(addr, int(buf[17])), 18, nil
	default:
		return netip.Prefix{}, 0, invalidError("prefix family", int(buf[0]))
	}
}

func putAddr(buf []byte, a netip.Addr) int {
	if a.Is4() {
		buf[0] = 4
		b := a.As4()
		copy(buf[1:5], b[:])
		return 5
	}
	buf[0] = 6
	b := a.As16()
	copy(buf[1:17], b[:])
	return 17
}

func getAddr(buf []byte) (netip.Addr, int, error) {
	if len(buf) < 1 {
		return netip.Addr{}, 0, lengthError(1, len(buf))
	}
	switch buf[0] {
	case 4:
		if len(buf) < 5 {
			return netip.Addr{}, 0, lengthError(5, len(buf))
		}
		return netip.AddrFrom4([4]byte(buf[1:5])), 5, nil
	case 6:
		if len(buf) < 17 {
			return netip.Addr{}, 0, lengthError(17, len(buf))
		}
		return netip.AddrFrom16([16]byte(buf[1:17])), 17, nil
	default:
		return netip.Addr{}, 0, invalidError("addr family", int(buf[0]))
	}
}

// nhopWire is the flat, encapsulation-light next-hop shape carried over
// the wire: one resolver level, matching what the routing daemon itself
// computes (ECMP/recursive next-hops are expressed as repeated AddRoute
// next-hop entries, not as a nested DAG on the wire).
type nhopWire struct {
	Address netip.Addr
	Ifindex wire.InterfaceIndex
	Action  rib.FwAction
	Encap   rib.Encap
}

func encodedNhopSize(n nhopWire) int {
	size := 1 + 4 + 17 + 1 + 4 // addr family+bytes(max) + ifindex + action + encap kind
	size += 4 + 17             // vni + remote ip (max)
	size += 4                  // mpls label
	return size
}

func putNhop(buf []byte, n nhopWire) int {
	off := putAddr(buf, n.Address)
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(n.Ifindex))
	off += 4
	buf[off] = byte(n.Action)
	off++
	buf[off] = byte(n.Encap.Kind)
	off++
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(n.Encap.Vni))
	off += 4
	off += putAddr(buf[off:], n.Encap.RemoteIp)
	binary.BigEndian.PutUint32(buf[off:off+4], n.Encap.MplsLabel)
	off += 4
	return off
}

func getNhop(buf []byte) (nhopWire, int, error) {
	addr, n, err := getAddr(buf)
	if err != nil {
		return nhopWire{}, 0, err
	}
	off := n
	if len(buf) < off+4+1+1+4 {
		return nhopWire{}, 0, lengthError(off+4+1+1+4, len(buf))
	}
	ifindex := wire.InterfaceIndex(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	action := rib.FwAction(buf[off])
	off++
	encapKind := rib.EncapKind(buf[off])
	off++
	vni := wire.Vni(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	remote, n2, err := getAddr(buf[off:])
	if err != nil {
		return nhopWire{}, 0, err
	}
	off += n2
	if len(buf) < off+4 {
		return nhopWire{}, 0, lengthError(off+4, len(buf))
	}
	mplsLabel := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	return nhopWire{
		Address: addr,
		Ifindex: ifindex,
		Action:  action,
		Encap:   rib.Encap{Kind: encapKind, Vni: vni, RemoteIp: remote, MplsLabel: mplsLabel},
	}, off, nil
}

// AddRoute installs or replaces one route in one VRF.
type AddRoute struct {
	Header
	VrfId    uint32
	Prefix   netip.Prefix
	Origin   rib.Origin
	Distance uint8
	Metric   uint32
	NextHops []nhopWire
}

func (m AddRoute) Encode() []byte {
	size := headerSize + 4 + encodedPrefixSize(m.Prefix) + 1 + 1 + 4 + 1
	for _, nh := range m.NextHops {
		size += encodedNhopSize(nh)
	}
	buf := make([]byte, size)
	encodeHeader(buf, MsgAddRoute, m.Seq)
	off := headerSize
	binary.BigEndian.PutUint32(buf[off:off+4], m.VrfId)
	off += 4
	off += putPrefix(buf[off:], m.Prefix)
	buf[off] = byte(m.Origin)
	off++
	buf[off] = m.Distance
	off++
	binary.BigEndian.PutUint32(buf[off:off+4], m.Metric)
	off += 4
	buf[off] = byte(len(m.NextHops))
	off++
	for _, nh := range m.NextHops {
		off += putNhop(buf[off:], nh)
	}
	return buf[:off]
}

func decodeAddRoute(h Header, buf []byte) (AddRoute, error) {
	off := headerSize
	if len(buf) < off+4 {
		return AddRoute{}, lengthError(off+4, len(buf))
	}
	vrfId := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	prefix, n, err := getPrefix(buf[off:])
	if err != nil {
		return AddRoute{}, err
	}
	off += n
	if len(buf) < off+7 {
		return AddRoute{}, lengthError(off+7, len(buf))
	}
	origin := rib.Origin(buf[off])
	off++
	distance := buf[off]
	off++
	metric := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	count := int(buf[off])
	off++
	nhops := make([]nhopWire, 0, count)
	for i := 0; i < count; i++ {
		nh, n, err := getNhop(buf[off:])
		if err != nil {
			return AddRoute{}, err
		}
		off += n
		nhops = append(nhops, nh)
	}
	return AddRoute{Header: h, VrfId: vrfId, Prefix: prefix, Origin: origin, Distance: distance, Metric: metric, NextHops: nhops}, nil
}

// DelRoute withdraws every route of Origin previously installed for
// Prefix in VrfId.
type DelRoute struct {
	Header
	VrfId  uint32
	Prefix netip.Prefix
	Origin rib.Origin
}

func (m DelRoute) Encode() []byte {
	size := headerSize + 4 + encodedPrefixSize(m.Prefix) + 1
	buf := make([]byte, size)
	encodeHeader(buf, MsgDelRoute, m.Seq)
	off := headerSize
	binary.BigEndian.PutUint32(buf[off:off+4], m.VrfId)
	off += 4
	off += putPrefix(buf[off:], m.Prefix)
	buf[off] = byte(m.Origin)
	return buf
}

func decodeDelRoute(h Header, buf []byte) (DelRoute, error) {
	off := headerSize
	if len(buf) < off+4 {
		return DelRoute{}, lengthError(off+4, len(buf))
	}
	vrfId := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	prefix, n, err := getPrefix(buf[off:])
	if err != nil {
		return DelRoute{}, err
	}
	off += n
	if len(buf) < off+1 {
		return DelRoute{}, lengthError(off+1, len(buf))
	}
	return DelRoute{Header: h, VrfId: vrfId, Prefix: prefix, Origin: rib.Origin(buf[off])}, nil
}

// AddRouterMac/DelRouterMac set or clear the router-MAC store entry for
// a (VNI, remote-VTEP-IP) pair.
type AddRouterMac struct {
	Header
	Vni    wire.Vni
	Remote netip.Addr
	Mac    wire.Mac
}

func (m AddRouterMac) Encode() []byte {
	size := headerSize + 4 + 17 + 6
	buf := make([]byte, size)
	encodeHeader(buf, MsgAddRouterMac, m.Seq)
	off := headerSize
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(m.Vni))
	off += 4
	off += putAddr(buf[off:], m.Remote)
	copy(buf[off:off+6], m.Mac[:])
	off += 6
	return buf[:off]
}

func decodeAddRouterMac(h Header, buf []byte) (AddRouterMac, error) {
	off := headerSize
	if len(buf) < off+4 {
		return AddRouterMac{}, lengthError(off+4, len(buf))
	}
	vni := wire.Vni(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	remote, n, err := getAddr(buf[off:])
	if err != nil {
		return AddRouterMac{}, err
	}
	off += n
	if len(buf) < off+6 {
		return AddRouterMac{}, lengthError(off+6, len(buf))
	}
	var mac wire.Mac
	copy(mac[:], buf[off:off+6])
	return AddRouterMac{Header: h, Vni: vni, Remote: remote, Mac: mac}, nil
}

type DelRouterMac struct {
	Header
	Vni    wire.Vni
	Remote netip.Addr
}

func (m DelRouterMac) Encode() []byte {
	size := headerSize + 4 + 17
	buf := make([]byte, size)
	encodeHeader(buf, MsgDelRouterMac, m.Seq)
	off := headerSize
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(m.Vni))
	off += 4
	off += putAddr(buf[off:], m.Remote)
	return buf[:off]
}

func decodeDelRouterMac(h Header, buf []byte) (DelRouterMac, error) {
	off := headerSize
	if len(buf) < off+4 {
		return DelRouterMac{}, lengthError(off+4, len(buf))
	}
	vni := wire.Vni(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	remote, _, err := getAddr(buf[off:])
	if err != nil {
		return DelRouterMac{}, err
	}
	return DelRouterMac{Header: h, Vni: vni, Remote: remote}, nil
}

// AddInterfaceAddress/DelInterfaceAddress set or clear an adjacency-table
// entry learned for an on-link neighbor.
type AddInterfaceAddress struct {
	Header
	Address netip.Addr
	Ifindex wire.InterfaceIndex
	Mac     wire.Mac
}

func (m AddInterfaceAddress) Encode() []byte {
	size := headerSize + 17 + 4 + 6
	buf := make([]byte, size)
	encodeHeader(buf, MsgAddInterfaceAddress, m.Seq)
	off := headerSize
	off += putAddr(buf[off:], m.Address)
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(m.Ifindex))
	off += 4
	copy(buf[off:off+6], m.Mac[:])
	off += 6
	return buf[:off]
}

func decodeAddInterfaceAddress(h Header, buf []byte) (AddInterfaceAddress, error) {
	addr, n, err := getAddr(buf[headerSize:])
	if err != nil {
		return AddInterfaceAddress{}, err
	}
	off := headerSize + n
	if len(buf) < off+4+6 {
		return AddInterfaceAddress{}, lengthError(off+4+6, len(buf))
	}
	ifindex := wire.InterfaceIndex(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4
	var mac wire.Mac
	copy(mac[:], buf[off:off+6])
	return AddInterfaceAddress{Header: h, Address: addr, Ifindex: ifindex, Mac: mac}, nil
}

type DelInterfaceAddress struct {
	Header
	Address netip.Addr
	Ifindex wire.InterfaceIndex
}

func (m DelInterfaceAddress) Encode() []byte {
	size := headerSize + 17 + 4
	buf := make([]byte, size)
	encodeHeader(buf, MsgDelInterfaceAddress, m.Seq)
	off := headerSize
	off += putAddr(buf[off:], m.Address)
	binary.BigEndian.PutUint32(buf[off:off+4], uint32(m.Ifindex))
	off += 4
	return buf[:off]
}

func decodeDelInterfaceAddress(h Header, buf []byte) (DelInterfaceAddress, error) {
	addr, n, err := getAddr(buf[headerSize:])
	if err != nil {
		return DelInterfaceAddress{}, err
	}
	off := headerSize + n
	if len(buf) < off+4 {
		return DelInterfaceAddress{}, lengthError(off+4, len(buf))
	}
	ifindex := wire.InterfaceIndex(binary.BigEndian.Uint32(buf[off : off+4]))
	return DelInterfaceAddress{Header: h, Address: addr, Ifindex: ifindex}, nil
}

// Response echoes the operation and sequence number of the request it
// answers, carrying a result code and, on failure, diagnostic text.
type Response struct {
	Header
	Op     MsgKind
	Result ResultCode
	Detail string
}

func (m Response) Encode() []byte {
	detail := []byte(m.Detail)
	buf := make([]byte, headerSize+1+1+2+len(detail))
	encodeHeader(buf, MsgResponse, m.Seq)
	off := headerSize
	buf[off] = byte(m.Op)
	off++
	buf[off] = byte(m.Result)
	off++
	binary.BigEndian.PutUint16(buf[off:off+2], uint16(len(detail)))
	off += 2
	copy(buf[off:], detail)
	return buf
}

func decodeResponse(h Header, buf []byte) (Response, error) {
	off := headerSize
	if len(buf) < off+4 {
		return Response{}, lengthError(off+4, len(buf))
	}
	op := MsgKind(buf[off])
	off++
	result := ResultCode(buf[off])
	off++
	detailLen := int(binary.BigEndian.Uint16(buf[off : off+2]))
	off += 2
	if len(buf) < off+detailLen {
		return Response{}, lengthError(off+detailLen, len(buf))
	}
	return Response{Header: h, Op: op, Result: result, Detail: string(buf[off : off+detailLen])}, nil
}

// Decode dispatches buf to its concrete message type by its leading
// MsgKind byte, returning it as an `any` holding one of the typed
// message structs above.
func Decode(buf []byte) (any, error) {
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	switch h.Kind {
	case MsgConnect:
		return decodeConnect(h, buf)
	case MsgAddRoute:
		return decodeAddRoute(h, buf)
	case MsgDelRoute:
		return decodeDelRoute(h, buf)
	case MsgAddRouterMac:
		return decodeAddRouterMac(h, buf)
	case MsgDelRouterMac:
		return decodeDelRouterMac(h, buf)
	case MsgAddInterfaceAddress:
		return decodeAddInterfaceAddress(h, buf)
	case MsgDelInterfaceAddress:
		return decodeDelInterfaceAddress(h, buf)
	case MsgResponse:
		return decodeResponse(h, buf)
	default:
		return nil, unknownMessageError(h.Kind)
	}
}
