package headers

import (
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// VxlanSize is the size in bytes of a VXLAN header.
const VxlanSize = 8

// Vxlan is a VXLAN header: the VNI-valid (I) flag is mandatory and carried
// implicitly (it is the only flag bit the stack accepts set), the VNI
// occupies the top 24 bits of the second word, and every other bit is
// reserved.
type Vxlan struct {
	Vni wire.Vni
}

// ParseVxlan parses an 8-byte VXLAN header from buf. It rejects a
// datagram whose I flag is unset (RequiredBitUnset) and one whose other
// flag bits or reserved bits are nonzero (ReservedBitsSet).
func ParseVxlan(buf []byte) (Vxlan, int, error) {
	if len(buf) < VxlanSize {
		return Vxlan{}, 0, lengthError(VxlanSize, len(buf))
	}
	flags := buf[0]
	if flags&0x08 == 0 {
		return Vxlan{}, 0, invalidErrorf("vxlan: I flag not set")
	}
	if flags&0xf7 != 0 {
		return Vxlan{}, 0, invalidErrorf("vxlan: reserved flag bits set: %#02x", flags)
	}
	if buf[1] != 0 || buf[2] != 0 || buf[3] != 0 {
		return Vxlan{}, 0, invalidErrorf("vxlan: reserved bytes 1-3 set")
	}
	vniRaw := uint32(buf[4])<<16 | uint32(buf[5])<<8 | uint32(buf[6])
	if buf[7] != 0 {
		return Vxlan{}, 0, invalidErrorf("vxlan: reserved byte 7 set")
	}
	vni, err := wire.NewVni(vniRaw)
	if err != nil {
		return Vxlan{}, 0, invalidErrorf("vxlan vni: %v", err)
	}
	return Vxlan{Vni: vni}, VxlanSize, nil
}

// Size returns the on-wire size of the header.
func (h Vxlan) Size() int { return VxlanSize }

// Deparse writes the header to buf, zeroing every reserved bit and
// setting the I flag.
func (h Vxlan) Deparse(buf []byte) (int, error) {
	if len(buf) < VxlanSize {
		return 0, lengthError(VxlanSize, len(buf))
	}
	buf[0] = 0x08
	buf[1] = 0
	buf[2] = 0
	buf[3] = 0
	vni := h.Vni.Uint32()
	buf[4] = byte(vni >> 16)
	buf[5] = byte(vni >> 8)
	buf[6] = byte(vni)
	buf[7] = 0
	return VxlanSize, nil
}
