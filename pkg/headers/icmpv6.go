package headers

import "net/netip"

// Icmpv6 type values the stack cares about.
const (
	Icmpv6TypeDestUnreachable uint8 = 1
	Icmpv6TypePacketTooBig    uint8 = 2
	Icmpv6TypeTimeExceeded    uint8 = 3
	Icmpv6TypeParamProblem    uint8 = 4
	Icmpv6TypeEchoRequest     uint8 = 128
	Icmpv6TypeEchoReply       uint8 = 129
)

// Icmpv6Size is the size in bytes of an ICMPv6 header.
const Icmpv6Size = 8

// TruncatedIcmpv6MinSize is the minimum suffix length accepted by
// ParseTruncatedIcmpv6: type and code only.
const TruncatedIcmpv6MinSize = 2

// Icmpv6 is an ICMPv6 header.
type Icmpv6 struct {
	Type         uint8
	Code         uint8
	Checksum     uint16
	RestOfHeader [4]byte
}

// ParseIcmpv6 parses a full 8-byte ICMPv6 header from buf.
func ParseIcmpv6(buf []byte) (Icmpv6, int, error) {
	if len(buf) < Icmpv6Size {
		return Icmpv6{}, 0, lengthError(Icmpv6Size, len(buf))
	}
	h := Icmpv6{
		Type:     buf[0],
		Code:     buf[1],
		Checksum: be16(buf[2:4]),
	}
	copy(h.RestOfHeader[:], buf[4:8])
	return h, Icmpv6Size, nil
}

// Size returns the on-wire size of the header.
func (h Icmpv6) Size() int { return Icmpv6Size }

// Deparse writes the header to buf.
func (h Icmpv6) Deparse(buf []byte) (int, error) {
	if len(buf) < Icmpv6Size {
		return 0, lengthError(Icmpv6Size, len(buf))
	}
	buf[0] = h.Type
	buf[1] = h.Code
	putBe16(buf[2:4], h.Checksum)
	copy(buf[4:8], h.RestOfHeader[:])
	return Icmpv6Size, nil
}

// IsQueryType reports whether Type is one of the Echo types.
func (h Icmpv6) IsQueryType() bool {
	return h.Type == Icmpv6TypeEchoRequest || h.Type == Icmpv6TypeEchoReply
}

// Identifier returns the identifier field for Echo query types.
func (h Icmpv6) Identifier() (uint16, bool) {
	if !h.IsQueryType() {
		return 0, false
	}
	return uint16(h.RestOfHeader[0])<<8 | uint16(h.RestOfHeader[1]), true
}

// ComputeChecksum computes the ICMPv6 checksum, which unlike ICMPv4
// includes the IPv6 pseudo-header (source, destination, upper-layer
// length, next-header) ahead of the header and message body.
func (h Icmpv6) ComputeChecksum(src, dst netip.Addr, body []byte) (uint16, error) {
	h.Checksum = 0
	hdr := make([]byte, Icmpv6Size)
	if _, err := h.Deparse(hdr); err != nil {
		return 0, err
	}
	upperLen := Icmpv6Size + len(body)
	partial := pseudoHeaderSumV6(src, dst, ProtoICMPv6, upperLen)
	full := append(hdr, body...)
	return finishChecksum(partial, full), nil
}

// SetChecksum returns a copy of h with Checksum set to v.
func (h Icmpv6) SetChecksum(v uint16) Icmpv6 {
	h.Checksum = v
	return h
}

// TruncatedIcmpv6 holds the leading bytes of an ICMPv6 header captured
// inside a truncated ICMP error payload.
type TruncatedIcmpv6 struct {
	Raw []byte // 2..8 bytes
}

// ParseTruncatedIcmpv6 accepts any suffix length >= TruncatedIcmpv6MinSize.
func ParseTruncatedIcmpv6(buf []byte) (TruncatedIcmpv6, int, error) {
	if len(buf) < TruncatedIcmpv6MinSize {
		return TruncatedIcmpv6{}, 0, lengthError(TruncatedIcmpv6MinSize, len(buf))
	}
	n := len(buf)
	if n > Icmpv6Size {
		n = Icmpv6Size
	}
	raw := append([]byte{}, buf[:n]...)
	return TruncatedIcmpv6{Raw: raw}, n, nil
}

func (t TruncatedIcmpv6) Size() int { return len(t.Raw) }

func (t TruncatedIcmpv6) Deparse(buf []byte) (int, error) {
	if len(buf) < len(t.Raw) {
		return 0, lengthError(len(t.Raw), len(buf))
	}
	copy(buf, t.Raw)
	return len(t.Raw), nil
}

func (t TruncatedIcmpv6) TypeCode() (typ, code uint8, ok bool) {
	if len(t.Raw) < 2 {
		return 0, 0, false
	}
	return t.Raw[0], t.Raw[1], true
}

// Identifier returns the identifier field for query types, only present
// when at least 6 bytes of the header were captured.
func (t TruncatedIcmpv6) Identifier() (uint16, bool) {
	typ, _, ok := t.TypeCode()
	if !ok || (typ != Icmpv6TypeEchoRequest && typ != Icmpv6TypeEchoReply) {
		return 0, false
	}
	if len(t.Raw) < 6 {
		return 0, false
	}
	return be16(t.Raw[4:6]), true
}
