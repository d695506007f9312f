package headers

import "net/netip"

// Ipv4MinSize is the size in bytes of an IPv4 header with no options.
const Ipv4MinSize = 20

// IPProto identifies the upper-layer protocol carried by an IP header.
type IPProto uint8

const (
	ProtoICMPv4 IPProto = 1
	ProtoTCP    IPProto = 6
	ProtoUDP    IPProto = 17
	ProtoIPv6   IPProto = 41
	ProtoAuth   IPProto = 51 // IP Authentication Header (RFC 4302)
	ProtoICMPv6 IPProto = 58
	// Ipv6Ext covers the remaining "hop-by-hop"/"fragment" style extension
	// headers the stack treats generically as a bounded-by-2 extension.
	ProtoIPv6HopByHop IPProto = 0
	ProtoIPv6Fragment IPProto = 44
)

// Ipv4 is an IPv4 header. Options are kept as raw bytes (IHL-5)*4 long.
type Ipv4 struct {
	DSCP           uint8 // 6 bits
	ECN            uint8 // 2 bits
	TotalLength    uint16
	Identification uint16
	Flags          uint8 // 3 bits: reserved, DF, MF
	FragmentOffset uint16 // 13 bits, in 8-byte units
	TTL            uint8
	Protocol       IPProto
	Checksum       uint16
	Src            netip.Addr
	Dst            netip.Addr
	Options        []byte
}

// ParseIpv4 parses an IPv4 header from buf.
func ParseIpv4(buf []byte) (Ipv4, int, error) {
	if len(buf) < Ipv4MinSize {
		return Ipv4{}, 0, lengthError(Ipv4MinSize, len(buf))
	}
	version := buf[0] >> 4
	ihl := int(buf[0] & 0x0f)
	if version != 4 {
		return Ipv4{}, 0, invalidErrorf("ipv4 version: got %d, want 4", version)
	}
	if ihl < 5 {
		return Ipv4{}, 0, invalidErrorf("ipv4 ihl: got %d, minimum 5", ihl)
	}
	headerLen := ihl * 4
	if len(buf) < headerLen {
		return Ipv4{}, 0, lengthError(headerLen, len(buf))
	}

	tosByte := buf[1]
	totalLength := be16(buf[2:4])
	id := be16(buf[4:6])
	flagsFrag := be16(buf[6:8])
	flags := uint8(flagsFrag >> 13)
	fragOff := flagsFrag & 0x1fff
	ttl := buf[8]
	proto := IPProto(buf[9])
	checksum := be16(buf[10:12])
	src := netip.AddrFrom4([4]byte{buf[12], buf[13], buf[14], buf[15]})
	dst := netip.AddrFrom4([4]byte{buf[16], buf[17], buf[18], buf[19]})

	var options []byte
	if headerLen > Ipv4MinSize {
		options = append([]byte{}, buf[Ipv4MinSize:headerLen]...)
	}

	h := Ipv4{
		DSCP:           tosByte >> 2,
		ECN:            tosByte & 0x3,
		TotalLength:    totalLength,
		Identification: id,
		Flags:          flags,
		FragmentOffset: fragOff,
		TTL:            ttl,
		Protocol:       proto,
		Checksum:       checksum,
		Src:            src,
		Dst:            dst,
		Options:        options,
	}
	return h, headerLen, nil
}

// Size returns the on-wire size of the header including options.
func (h Ipv4) Size() int { return Ipv4MinSize + len(h.Options) }

// Deparse writes the header (reserved version/IHL bits computed from
// Options length) to buf.
func (h Ipv4) Deparse(buf []byte) (int, error) {
	n := h.Size()
	if len(buf) < n {
		return 0, lengthError(n, len(buf))
	}
	ihl := uint8(n / 4)
	buf[0] = 4<<4 | ihl&0x0f
	buf[1] = h.DSCP<<2 | h.ECN&0x3
	putBe16(buf[2:4], h.TotalLength)
	putBe16(buf[4:6], h.Identification)
	putBe16(buf[6:8], uint16(h.Flags&0x7)<<13|h.FragmentOffset&0x1fff)
	buf[8] = h.TTL
	buf[9] = byte(h.Protocol)
	putBe16(buf[10:12], h.Checksum)
	src4 := h.Src.As4()
	dst4 := h.Dst.As4()
	copy(buf[12:16], src4[:])
	copy(buf[16:20], dst4[:])
	copy(buf[20:n], h.Options)
	return n, nil
}

// ComputeChecksum computes the header checksum (checksum field zeroed
// during computation), without mutating h.
func (h Ipv4) ComputeChecksum() (uint16, error) {
	buf := make([]byte, h.Size())
	h.Checksum = 0
	if _, err := h.Deparse(buf); err != nil {
		return 0, err
	}
	return onesComplementChecksum(buf), nil
}

// SetChecksum returns a copy of h with Checksum set to v.
func (h Ipv4) SetChecksum(v uint16) Ipv4 {
	h.Checksum = v
	return h
}
