package headers

import (
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// EthSize is the size in bytes of an Ethernet header without any VLAN tags.
const EthSize = 14

// Eth is an Ethernet II header.
type Eth struct {
	Dst       wire.DestinationMac
	Src       wire.SourceMac
	EtherType wire.EthType
}

// ParseEth parses buf[0:14] as an Ethernet header.
func ParseEth(buf []byte) (Eth, int, error) {
	if len(buf) < EthSize {
		return Eth{}, 0, lengthError(EthSize, len(buf))
	}
	var dstRaw, srcRaw wire.Mac
	copy(dstRaw[:], buf[0:6])
	copy(srcRaw[:], buf[6:12])

	dst, err := wire.NewDestinationMac(dstRaw)
	if err != nil {
		return Eth{}, 0, invalidErrorf("eth dst: %v", err)
	}
	src, err := wire.NewSourceMac(srcRaw)
	if err != nil {
		return Eth{}, 0, invalidErrorf("eth src: %v", err)
	}

	etherType := wire.EthType(be16(buf[12:14]))
	return Eth{Dst: dst, Src: src, EtherType: etherType}, EthSize, nil
}

// Size returns the on-wire size of the header.
func (e Eth) Size() int { return EthSize }

// Deparse writes the header to buf, returning the number of bytes written.
func (e Eth) Deparse(buf []byte) (int, error) {
	if len(buf) < EthSize {
		return 0, lengthError(EthSize, len(buf))
	}
	dstMac := e.Dst.Mac()
	srcMac := e.Src.Mac()
	copy(buf[0:6], dstMac[:])
	copy(buf[6:12], srcMac[:])
	putBe16(buf[12:14], uint16(e.EtherType))
	return EthSize, nil
}
