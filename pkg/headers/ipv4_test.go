package headers

import (
	"bytes"
	"net/netip"
	"testing"
)

func buildIpv4Bytes(proto IPProto) []byte {
	buf := make([]byte, 20)
	buf[0] = 4<<4 | 5
	buf[1] = 0
	putBe16(buf[2:4], 20)
	putBe16(buf[4:6], 0x1234)
	putBe16(buf[6:8], 0)
	buf[8] = 64
	buf[9] = byte(proto)
	putBe16(buf[10:12], 0)
	src := netip.MustParseAddr("192.168.1.1").As4()
	dst := netip.MustParseAddr("192.168.1.2").As4()
	copy(buf[12:16], src[:])
	copy(buf[16:20], dst[:])
	return buf
}

func TestIpv4RoundTrip(t *testing.T) {
	buf := buildIpv4Bytes(ProtoUDP)
	h, n, err := ParseIpv4(buf)
	if err != nil {
		t.Fatalf("ParseIpv4: %v", err)
	}
	if n != Ipv4MinSize {
		t.Fatalf("consumed = %d, want %d", n, Ipv4MinSize)
	}
	out := make([]byte, h.Size())
	if _, err := h.Deparse(out); err != nil {
		t.Fatalf("Deparse: %v", err)
	}
	if !bytes.Equal(out, buf) {
		t.Fatalf("Deparse() = %x, want %x", out, buf)
	}
}

func TestIpv4RejectsBadVersion(t *testing.T) {
	buf := buildIpv4Bytes(ProtoUDP)
	buf[0] = 6<<4 | 5
	if _, _, err := ParseIpv4(buf); err == nil {
		t.Fatal("expected error for wrong version")
	}
}

func TestIpv4ChecksumStateless(t *testing.T) {
	buf := buildIpv4Bytes(ProtoUDP)
	h, _, err := ParseIpv4(buf)
	if err != nil {
		t.Fatalf("ParseIpv4: %v", err)
	}
	before := h.Checksum
	if _, err := h.ComputeChecksum(); err != nil {
		t.Fatalf("ComputeChecksum: %v", err)
	}
	if h.Checksum != before {
		t.Fatal("ComputeChecksum must not mutate the receiver")
	}
}
