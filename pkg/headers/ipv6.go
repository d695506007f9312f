package headers

import "net/netip"

// Ipv6Size is the fixed size in bytes of an IPv6 header (options live in
// separate extension headers, not here).
const Ipv6Size = 40

// Ipv6 is an IPv6 fixed header.
type Ipv6 struct {
	TrafficClass uint8
	FlowLabel    uint32 // 20 bits
	PayloadLength uint16
	NextHeader   IPProto
	HopLimit     uint8
	Src          netip.Addr
	Dst          netip.Addr
}

// ParseIpv6 parses an IPv6 fixed header from buf.
func ParseIpv6(buf []byte) (Ipv6, int, error) {
	if len(buf) < Ipv6Size {
		return Ipv6{}, 0, lengthError(Ipv6Size, len(buf))
	}
	verClassFlow := be32(buf[0:4])
	version := byte(verClassFlow >> 28)
	if version != 6 {
		return Ipv6{}, 0, invalidErrorf("ipv6 version: got %d, want 6", version)
	}
	trafficClass := uint8(verClassFlow >> 20 & 0xff)
	flowLabel := verClassFlow & 0xfffff
	payloadLen := be16(buf[4:6])
	nextHeader := IPProto(buf[6])
	hopLimit := buf[7]
	var srcBytes, dstBytes [16]byte
	copy(srcBytes[:], buf[8:24])
	copy(dstBytes[:], buf[24:40])
	src := netip.AddrFrom16(srcBytes)
	dst := netip.AddrFrom16(dstBytes)

	h := Ipv6{
		TrafficClass:  trafficClass,
		FlowLabel:     flowLabel,
		PayloadLength: payloadLen,
		NextHeader:    nextHeader,
		HopLimit:      hopLimit,
		Src:           src,
		Dst:           dst,
	}
	return h, Ipv6Size, nil
}

// Size returns the on-wire size of the fixed header.
func (h Ipv6) Size() int { return Ipv6Size }

// Deparse writes the fixed header to buf.
func (h Ipv6) Deparse(buf []byte) (int, error) {
	if len(buf) < Ipv6Size {
		return 0, lengthError(Ipv6Size, len(buf))
	}
	verClassFlow := uint32(6)<<28 | uint32(h.TrafficClass)<<20 | h.FlowLabel&0xfffff
	putBe32(buf[0:4], verClassFlow)
	putBe16(buf[4:6], h.PayloadLength)
	buf[6] = byte(h.NextHeader)
	buf[7] = h.HopLimit
	src16 := h.Src.As16()
	dst16 := h.Dst.As16()
	copy(buf[8:24], src16[:])
	copy(buf[24:40], dst16[:])
	return Ipv6Size, nil
}

// MaxIpv6Extensions is the bound on the number of network extension
// headers the stack parses (hop-by-hop, fragment, authentication, ...).
const MaxIpv6Extensions = 2

// Ipv6ExtGeneric models extension headers sharing the hop-by-hop/
// destination-options layout: NextHeader(1) + HdrExtLen(1, in 8-byte units
// excluding the first 8 bytes) + options.
type Ipv6ExtGeneric struct {
	Kind       IPProto // ProtoIPv6HopByHop or a destination-options next-header value
	NextHeader IPProto
	Options    []byte
}

// ParseIpv6ExtGeneric parses a hop-by-hop/destination-options style
// extension header.
func ParseIpv6ExtGeneric(kind IPProto, buf []byte) (Ipv6ExtGeneric, int, error) {
	if len(buf) < 8 {
		return Ipv6ExtGeneric{}, 0, lengthError(8, len(buf))
	}
	nextHeader := IPProto(buf[0])
	hdrExtLen := int(buf[1])
	size := 8 + hdrExtLen*8
	if len(buf) < size {
		return Ipv6ExtGeneric{}, 0, lengthError(size, len(buf))
	}
	opts := append([]byte{}, buf[2:size]...)
	return Ipv6ExtGeneric{Kind: kind, NextHeader: nextHeader, Options: opts}, size, nil
}

func (e Ipv6ExtGeneric) Size() int {
	total := len(e.Options) + 2
	size := ((total + 7) / 8) * 8
	if size < 8 {
		size = 8
	}
	return size
}

// Deparse writes the extension header to buf, padding Options up to the
// next 8-byte boundary with zero bytes (reserved padding is zeroed on
// emission).
func (e Ipv6ExtGeneric) Deparse(buf []byte) (int, error) {
	total := len(e.Options) + 2
	size := ((total + 7) / 8) * 8
	if size < 8 {
		size = 8
	}
	hdrExtLen := size/8 - 1
	if len(buf) < size {
		return 0, lengthError(size, len(buf))
	}
	buf[0] = byte(e.NextHeader)
	buf[1] = byte(hdrExtLen)
	copy(buf[2:2+len(e.Options)], e.Options)
	for i := 2 + len(e.Options); i < size; i++ {
		buf[i] = 0
	}
	return size, nil
}

// Ipv6ExtFragment is the IPv6 Fragment extension header, always 8 bytes.
type Ipv6ExtFragment struct {
	NextHeader     IPProto
	FragmentOffset uint16 // 13 bits, in 8-byte units
	MoreFragments  bool
	Identification uint32
}

const ipv6FragmentSize = 8

// ParseIpv6ExtFragment parses a fixed 8-byte Fragment header.
func ParseIpv6ExtFragment(buf []byte) (Ipv6ExtFragment, int, error) {
	if len(buf) < ipv6FragmentSize {
		return Ipv6ExtFragment{}, 0, lengthError(ipv6FragmentSize, len(buf))
	}
	nextHeader := IPProto(buf[0])
	offsetFlags := be16(buf[2:4])
	offset := offsetFlags >> 3
	more := offsetFlags&0x1 != 0
	id := be32(buf[4:8])
	return Ipv6ExtFragment{NextHeader: nextHeader, FragmentOffset: offset, MoreFragments: more, Identification: id}, ipv6FragmentSize, nil
}

func (f Ipv6ExtFragment) Size() int { return ipv6FragmentSize }

func (f Ipv6ExtFragment) Deparse(buf []byte) (int, error) {
	if len(buf) < ipv6FragmentSize {
		return 0, lengthError(ipv6FragmentSize, len(buf))
	}
	buf[0] = byte(f.NextHeader)
	buf[1] = 0
	offsetFlags := f.FragmentOffset << 3
	if f.MoreFragments {
		offsetFlags |= 0x1
	}
	putBe16(buf[2:4], offsetFlags)
	putBe32(buf[4:8], f.Identification)
	return ipv6FragmentSize, nil
}
