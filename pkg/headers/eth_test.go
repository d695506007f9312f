package headers

import (
	"bytes"
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func TestEthRoundTrip(t *testing.T) {
	buf := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, // dst
		0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, // src
		0x08, 0x00, // IPv4
	}
	h, n, err := ParseEth(buf)
	if err != nil {
		t.Fatalf("ParseEth: %v", err)
	}
	if n != EthSize {
		t.Fatalf("consumed = %d, want %d", n, EthSize)
	}
	if h.EtherType != wire.EthTypeIPv4 {
		t.Fatalf("EtherType = %v, want IPv4", h.EtherType)
	}
	out := make([]byte, EthSize)
	if _, err := h.Deparse(out); err != nil {
		t.Fatalf("Deparse: %v", err)
	}
	if !bytes.Equal(out, buf) {
		t.Fatalf("Deparse() = %x, want %x", out, buf)
	}
}

func TestEthRejectsZeroSrcMac(t *testing.T) {
	buf := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x08, 0x00,
	}
	if _, _, err := ParseEth(buf); err == nil {
		t.Fatal("expected error for zero source mac")
	}
}

func TestEthRejectsShortBuffer(t *testing.T) {
	if _, _, err := ParseEth(make([]byte, 10)); err == nil {
		t.Fatal("expected length error")
	}
}
