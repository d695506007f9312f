package headers

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// UdpSize is the size in bytes of a UDP header.
const UdpSize = 8

// TruncatedUdpMinSize is the minimum suffix length (ports only) accepted by
// ParseTruncatedUdp, used when decoding the original datagram embedded in an
// ICMP error message.
const TruncatedUdpMinSize = 4

// Udp is a UDP header.
type Udp struct {
	Src      wire.UdpPort
	Dst      wire.UdpPort
	Length   uint16
	Checksum uint16
}

// ParseUdp parses a full 8-byte UDP header from buf.
func ParseUdp(buf []byte) (Udp, int, error) {
	if len(buf) < UdpSize {
		return Udp{}, 0, lengthError(UdpSize, len(buf))
	}
	src, err := wire.NewUdpPort(be16(buf[0:2]))
	if err != nil {
		return Udp{}, 0, invalidErrorf("udp src port: %v", err)
	}
	dst, err := wire.NewUdpPort(be16(buf[2:4]))
	if err != nil {
		return Udp{}, 0, invalidErrorf("udp dst port: %v", err)
	}
	length := be16(buf[4:6])
	checksum := be16(buf[6:8])
	return Udp{Src: src, Dst: dst, Length: length, Checksum: checksum}, UdpSize, nil
}

// Size returns the on-wire size of the header.
func (u Udp) Size() int { return UdpSize }

// Deparse writes the header to buf.
func (u Udp) Deparse(buf []byte) (int, error) {
	if len(buf) < UdpSize {
		return 0, lengthError(UdpSize, len(buf))
	}
	putBe16(buf[0:2], u.Src.Uint16())
	putBe16(buf[2:4], u.Dst.Uint16())
	putBe16(buf[4:6], u.Length)
	putBe16(buf[6:8], u.Checksum)
	return UdpSize, nil
}

// ComputeChecksumV4 computes the UDP checksum over the IPv4 pseudo-header
// plus this header and payload, without mutating u.
func (u Udp) ComputeChecksumV4(src, dst netip.Addr, payload []byte) (uint16, error) {
	u.Checksum = 0
	hdr := make([]byte, UdpSize)
	if _, err := u.Deparse(hdr); err != nil {
		return 0, err
	}
	upperLen := UdpSize + len(payload)
	partial := pseudoHeaderSumV4(src, dst, ProtoUDP, upperLen)
	body := append(hdr, payload...)
	return finishChecksum(partial, body), nil
}

// ComputeChecksumV6 computes the UDP checksum over the IPv6 pseudo-header
// plus this header and payload.
func (u Udp) ComputeChecksumV6(src, dst netip.Addr, payload []byte) (uint16, error) {
	u.Checksum = 0
	hdr := make([]byte, UdpSize)
	if _, err := u.Deparse(hdr); err != nil {
		return 0, err
	}
	upperLen := UdpSize + len(payload)
	partial := pseudoHeaderSumV6(src, dst, ProtoUDP, upperLen)
	body := append(hdr, payload...)
	return finishChecksum(partial, body), nil
}

// SetChecksum returns a copy of u with Checksum set to v.
func (u Udp) SetChecksum(v uint16) Udp {
	u.Checksum = v
	return u
}

// TruncatedUdp holds only the leading bytes of a UDP header that were
// available in a truncated ICMP error payload. It round-trips back to
// exactly the bytes it was parsed from.
type TruncatedUdp struct {
	Raw []byte // 4..8 bytes: src port, dst port, and whatever else was present
}

// ParseTruncatedUdp accepts any suffix length >= TruncatedUdpMinSize (ports
// only) and up to UdpSize.
func ParseTruncatedUdp(buf []byte) (TruncatedUdp, int, error) {
	if len(buf) < TruncatedUdpMinSize {
		return TruncatedUdp{}, 0, lengthError(TruncatedUdpMinSize, len(buf))
	}
	n := len(buf)
	if n > UdpSize {
		n = UdpSize
	}
	raw := append([]byte{}, buf[:n]...)
	return TruncatedUdp{Raw: raw}, n, nil
}

// Size returns the number of bytes this truncated header was built from.
func (t TruncatedUdp) Size() int { return len(t.Raw) }

// Deparse writes the raw bytes back to buf.
func (t TruncatedUdp) Deparse(buf []byte) (int, error) {
	if len(buf) < len(t.Raw) {
		return 0, lengthError(len(t.Raw), len(buf))
	}
	copy(buf, t.Raw)
	return len(t.Raw), nil
}

// SrcPort returns the source port if at least 2 bytes were captured.
func (t TruncatedUdp) SrcPort() (uint16, bool) {
	if len(t.Raw) < 2 {
		return 0, false
	}
	return be16(t.Raw[0:2]), true
}

// DstPort returns the destination port if at least 4 bytes were captured.
func (t TruncatedUdp) DstPort() (uint16, bool) {
	if len(t.Raw) < 4 {
		return 0, false
	}
	return be16(t.Raw[2:4]), true
}
