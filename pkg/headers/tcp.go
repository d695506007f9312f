package headers

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// TcpMinSize is the size in bytes of a TCP header with no options.
const TcpMinSize = 20

// TruncatedTcpMinSize is the minimum suffix length (ports only) accepted by
// ParseTruncatedTcp.
const TruncatedTcpMinSize = 4

// TcpFlags holds the 8 TCP control bits of the flags byte (6 classic +
// ECE/CWR). The NS bit in the data-offset byte is not represented.
type TcpFlags struct {
	Fin, Syn, Rst, Psh, Ack, Urg, Ece, Cwr bool
}

func (f TcpFlags) toByte() byte {
	var b byte
	if f.Fin {
		b |= 0x01
	}
	if f.Syn {
		b |= 0x02
	}
	if f.Rst {
		b |= 0x04
	}
	if f.Psh {
		b |= 0x08
	}
	if f.Ack {
		b |= 0x10
	}
	if f.Urg {
		b |= 0x20
	}
	if f.Ece {
		b |= 0x40
	}
	if f.Cwr {
		b |= 0x80
	}
	return b
}

func flagsFromByte(b byte) TcpFlags {
	return TcpFlags{
		Fin: b&0x01 != 0,
		Syn: b&0x02 != 0,
		Rst: b&0x04 != 0,
		Psh: b&0x08 != 0,
		Ack: b&0x10 != 0,
		Urg: b&0x20 != 0,
		Ece: b&0x40 != 0,
		Cwr: b&0x80 != 0,
	}
}

// Tcp is a TCP header. Options are kept as raw bytes.
type Tcp struct {
	Src        wire.TcpPort
	Dst        wire.TcpPort
	SeqNum     uint32
	AckNum     uint32
	DataOffset uint8 // in 32-bit words, >= 5
	Flags      TcpFlags
	Window     uint16
	Checksum   uint16
	UrgentPtr  uint16
	Options    []byte
}

// ParseTcp parses a TCP header from buf.
func ParseTcp(buf []byte) (Tcp, int, error) {
	if len(buf) < TcpMinSize {
		return Tcp{}, 0, lengthError(TcpMinSize, len(buf))
	}
	src, err := wire.NewTcpPort(be16(buf[0:2]))
	if err != nil {
		return Tcp{}, 0, invalidErrorf("tcp src port: %v", err)
	}
	dst, err := wire.NewTcpPort(be16(buf[2:4]))
	if err != nil {
		return Tcp{}, 0, invalidErrorf("tcp dst port: %v", err)
	}
	seq := be32(buf[4:8])
	ack := be32(buf[8:12])
	dataOffset := buf[12] >> 4
	if dataOffset < 5 {
		return Tcp{}, 0, invalidErrorf("tcp data offset: got %d, minimum 5", dataOffset)
	}
	headerLen := int(dataOffset) * 4
	if len(buf) < headerLen {
		return Tcp{}, 0, lengthError(headerLen, len(buf))
	}
	flags := flagsFromByte(buf[13])
	window := be16(buf[14:16])
	checksum := be16(buf[16:18])
	urgent := be16(buf[18:20])

	var options []byte
	if headerLen > TcpMinSize {
		options = append([]byte{}, buf[TcpMinSize:headerLen]...)
	}

	h := Tcp{
		Src: src, Dst: dst, SeqNum: seq, AckNum: ack,
		DataOffset: dataOffset, Flags: flags, Window: window,
		Checksum: checksum, UrgentPtr: urgent, Options: options,
	}
	return h, headerLen, nil
}

// Size returns the on-wire size of the header including options.
func (h Tcp) Size() int { return TcpMinSize + len(h.Options) }

// HeaderLen returns the header length in bytes, matching h.Size().
func (h Tcp) HeaderLen() int { return h.Size() }

// Deparse writes the header to buf.
func (h Tcp) Deparse(buf []byte) (int, error) {
	n := h.Size()
	if len(buf) < n {
		return 0, lengthError(n, len(buf))
	}
	dataOffset := uint8(n / 4)
	putBe16(buf[0:2], h.Src.Uint16())
	putBe16(buf[2:4], h.Dst.Uint16())
	putBe32(buf[4:8], h.SeqNum)
	putBe32(buf[8:12], h.AckNum)
	buf[12] = dataOffset << 4
	buf[13] = h.Flags.toByte()
	putBe16(buf[14:16], h.Window)
	putBe16(buf[16:18], h.Checksum)
	putBe16(buf[18:20], h.UrgentPtr)
	copy(buf[20:n], h.Options)
	return n, nil
}

// ComputeChecksumV4 computes the TCP checksum over the IPv4 pseudo-header
// plus this header (with options) and payload.
func (h Tcp) ComputeChecksumV4(src, dst netip.Addr, payload []byte) (uint16, error) {
	h.Checksum = 0
	hdr := make([]byte, h.Size())
	if _, err := h.Deparse(hdr); err != nil {
		return 0, err
	}
	upperLen := h.Size() + len(payload)
	partial := pseudoHeaderSumV4(src, dst, ProtoTCP, upperLen)
	body := append(hdr, payload...)
	return finishChecksum(partial, body), nil
}

// ComputeChecksumV6 computes the TCP checksum over the IPv6 pseudo-header
// plus this header (with options) and payload.
func (h Tcp) ComputeChecksumV6(src, dst netip.Addr, payload []byte) (uint16, error) {
	h.Checksum = 0
	hdr := make([]byte, h.Size())
	if _, err := h.Deparse(hdr); err != nil {
		return 0, err
	}
	upperLen := h.Size() + len(payload)
	partial := pseudoHeaderSumV6(src, dst, ProtoTCP, upperLen)
	body := append(hdr, payload...)
	return finishChecksum(partial, body), nil
}

// SetChecksum returns a copy of h with Checksum set to v.
func (h Tcp) SetChecksum(v uint16) Tcp {
	h.Checksum = v
	return h
}

// TruncatedTcp holds the leading bytes of a TCP header captured in a
// truncated ICMP error payload.
type TruncatedTcp struct {
	Raw []byte // 4..20 bytes
}

// ParseTruncatedTcp accepts any suffix length >= TruncatedTcpMinSize.
func ParseTruncatedTcp(buf []byte) (TruncatedTcp, int, error) {
	if len(buf) < TruncatedTcpMinSize {
		return TruncatedTcp{}, 0, lengthError(TruncatedTcpMinSize, len(buf))
	}
	n := len(buf)
	if n > TcpMinSize {
		n = TcpMinSize
	}
	raw := append([]byte{}, buf[:n]...)
	return TruncatedTcp{Raw: raw}, n, nil
}

func (t TruncatedTcp) Size() int { return len(t.Raw) }

func (t TruncatedTcp) Deparse(buf []byte) (int, error) {
	if len(buf) < len(t.Raw) {
		return 0, lengthError(len(t.Raw), len(buf))
	}
	copy(buf, t.Raw)
	return len(t.Raw), nil
}

func (t TruncatedTcp) SrcPort() (uint16, bool) {
	if len(t.Raw) < 2 {
		return 0, false
	}
	return be16(t.Raw[0:2]), true
}

func (t TruncatedTcp) DstPort() (uint16, bool) {
	if len(t.Raw) < 4 {
		return 0, false
	}
	return be16(t.Raw[2:4]), true
}
