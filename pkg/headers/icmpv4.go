package headers

// Icmpv4 type values the stack cares about (error messages and the two
// query types whose headers carry an identifier in the first 4 bytes of
// the "rest of header" field).
const (
	Icmpv4TypeEchoReply       uint8 = 0
	Icmpv4TypeDestUnreachable uint8 = 3
	Icmpv4TypeEchoRequest     uint8 = 8
	Icmpv4TypeTimeExceeded    uint8 = 11
)

// Icmpv4Size is the size in bytes of an ICMPv4 header (type, code,
// checksum, and the 4-byte "rest of header" field).
const Icmpv4Size = 8

// TruncatedIcmpv4MinSize is the minimum suffix length accepted by
// ParseTruncatedIcmpv4: type and code only.
const TruncatedIcmpv4MinSize = 2

// Icmpv4 is an ICMPv4 header. RestOfHeader holds the 4 bytes following the
// checksum, whose interpretation (identifier/sequence, unused, pointer,
// gateway address, ...) depends on Type and is left to the caller.
type Icmpv4 struct {
	Type         uint8
	Code         uint8
	Checksum     uint16
	RestOfHeader [4]byte
}

// ParseIcmpv4 parses a full 8-byte ICMPv4 header from buf. The message
// body (if any) is not consumed here; checksum computation needs it
// separately via ComputeChecksum.
func ParseIcmpv4(buf []byte) (Icmpv4, int, error) {
	if len(buf) < Icmpv4Size {
		return Icmpv4{}, 0, lengthError(Icmpv4Size, len(buf))
	}
	h := Icmpv4{
		Type:     buf[0],
		Code:     buf[1],
		Checksum: be16(buf[2:4]),
	}
	copy(h.RestOfHeader[:], buf[4:8])
	return h, Icmpv4Size, nil
}

// Size returns the on-wire size of the header.
func (h Icmpv4) Size() int { return Icmpv4Size }

// Deparse writes the header to buf.
func (h Icmpv4) Deparse(buf []byte) (int, error) {
	if len(buf) < Icmpv4Size {
		return 0, lengthError(Icmpv4Size, len(buf))
	}
	buf[0] = h.Type
	buf[1] = h.Code
	putBe16(buf[2:4], h.Checksum)
	copy(buf[4:8], h.RestOfHeader[:])
	return Icmpv4Size, nil
}

// IsQueryType reports whether Type is one of the Echo types, whose
// RestOfHeader carries an identifier and sequence number rather than an
// error-specific field.
func (h Icmpv4) IsQueryType() bool {
	return h.Type == Icmpv4TypeEchoRequest || h.Type == Icmpv4TypeEchoReply
}

// Identifier returns the identifier field for Echo query types.
func (h Icmpv4) Identifier() (uint16, bool) {
	if !h.IsQueryType() {
		return 0, false
	}
	return uint16(h.RestOfHeader[0])<<8 | uint16(h.RestOfHeader[1]), true
}

// ComputeChecksum computes the ICMPv4 checksum (no pseudo-header) over
// this header plus the given message body, without mutating h.
func (h Icmpv4) ComputeChecksum(body []byte) (uint16, error) {
	h.Checksum = 0
	hdr := make([]byte, Icmpv4Size)
	if _, err := h.Deparse(hdr); err != nil {
		return 0, err
	}
	full := append(hdr, body...)
	return onesComplementChecksum(full), nil
}

// SetChecksum returns a copy of h with Checksum set to v.
func (h Icmpv4) SetChecksum(v uint16) Icmpv4 {
	h.Checksum = v
	return h
}

// TruncatedIcmpv4 holds the leading bytes of an ICMPv4 header captured
// inside a truncated ICMP error payload (itself embedding an earlier
// ICMP datagram, e.g. a Destination Unreachable for an Echo Request).
type TruncatedIcmpv4 struct {
	Raw []byte // 2..8 bytes: type, code, and whatever else was present
}

// ParseTruncatedIcmpv4 accepts any suffix length >= TruncatedIcmpv4MinSize.
func ParseTruncatedIcmpv4(buf []byte) (TruncatedIcmpv4, int, error) {
	if len(buf) < TruncatedIcmpv4MinSize {
		return TruncatedIcmpv4{}, 0, lengthError(TruncatedIcmpv4MinSize, len(buf))
	}
	n := len(buf)
	if n > Icmpv4Size {
		n = Icmpv4Size
	}
	raw := append([]byte{}, buf[:n]...)
	return TruncatedIcmpv4{Raw: raw}, n, nil
}

func (t TruncatedIcmpv4) Size() int { return len(t.Raw) }

func (t TruncatedIcmpv4) Deparse(buf []byte) (int, error) {
	if len(buf) < len(t.Raw) {
		return 0, lengthError(len(t.Raw), len(buf))
	}
	copy(buf, t.Raw)
	return len(t.Raw), nil
}

// TypeCode returns the ICMP type and code if at least 2 bytes were captured.
func (t TruncatedIcmpv4) TypeCode() (typ, code uint8, ok bool) {
	if len(t.Raw) < 2 {
		return 0, 0, false
	}
	return t.Raw[0], t.Raw[1], true
}

// Identifier returns the identifier field for query types, only present
// when at least 6 bytes of the header were captured.
func (t TruncatedIcmpv4) Identifier() (uint16, bool) {
	typ, _, ok := t.TypeCode()
	if !ok || (typ != Icmpv4TypeEchoRequest && typ != Icmpv4TypeEchoReply) {
		return 0, false
	}
	if len(t.Raw) < 6 {
		return 0, false
	}
	return be16(t.Raw[4:6]), true
}
