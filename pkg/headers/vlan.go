package headers

import "github.com/fabricgw/gwdataplane/pkg/wire"

// VlanSize is the size in bytes of one VLAN tag's TCI+inner-ethertype.
const VlanSize = 4

// MaxVlans is the maximum number of stacked VLAN tags the header stack
// parses before it stops and leaves the remainder as unparsed payload.
const MaxVlans = 4

// Vlan is one 802.1Q/QinQ tag: the TCI (priority, drop-eligible, vlan id)
// plus the ethertype of the header that follows it.
type Vlan struct {
	Pcp       uint8 // 3-bit priority code point
	Dei       bool  // drop eligible indicator
	Vid       wire.Vid
	EtherType wire.EthType // protocol of the header carried inside this tag
}

// ParseVlan parses buf[0:4] as a VLAN tag.
func ParseVlan(buf []byte) (Vlan, int, error) {
	if len(buf) < VlanSize {
		return Vlan{}, 0, lengthError(VlanSize, len(buf))
	}
	tci := be16(buf[0:2])
	pcp := uint8(tci >> 13)
	dei := tci&0x1000 != 0
	vidRaw := tci & 0x0fff

	// VID 0 means "priority tag, no VLAN membership" and VID 0xfff is
	// reserved; both are outside wire.Vid's 1-4094 invariant, so a packet
	// carrying either is rejected the same way any other invalid field is.
	vid, err := wire.NewVid(vidRaw)
	if err != nil {
		return Vlan{}, 0, invalidErrorf("vlan vid: %v", err)
	}

	etherType := wire.EthType(be16(buf[2:4]))
	return Vlan{Pcp: pcp, Dei: dei, Vid: vid, EtherType: etherType}, VlanSize, nil
}

// Size returns the on-wire size of the tag.
func (v Vlan) Size() int { return VlanSize }

// Deparse writes the tag to buf, returning the number of bytes written.
func (v Vlan) Deparse(buf []byte) (int, error) {
	if len(buf) < VlanSize {
		return 0, lengthError(VlanSize, len(buf))
	}
	tci := uint16(v.Pcp&0x7) << 13
	if v.Dei {
		tci |= 0x1000
	}
	tci |= v.Vid.Uint16() & 0x0fff
	putBe16(buf[0:2], tci)
	putBe16(buf[2:4], uint16(v.EtherType))
	return VlanSize, nil
}

// ErrTooManyVlans is returned by PushVlan once MaxVlans tags are present.
var ErrTooManyVlans = invalidError("too many vlan tags (max 4)")

// PushVlan pushes a new outermost VLAN tag carrying vid, making the tag's
// inner ethertype the header stack's current outer ethertype and setting
// the new outer ethertype to tpid (802.1Q/QinQ/provider-bridge). Returns
// ErrTooManyVlans and leaves vlans unchanged if already at MaxVlans.
func PushVlan(outerEtherType wire.EthType, vlans []Vlan, vid wire.Vid, tpid wire.EthType) (wire.EthType, []Vlan, error) {
	if len(vlans) >= MaxVlans {
		return outerEtherType, vlans, ErrTooManyVlans
	}
	pushed := Vlan{Vid: vid, EtherType: outerEtherType}
	out := make([]Vlan, 0, len(vlans)+1)
	out = append(out, pushed)
	out = append(out, vlans...)
	return tpid, out, nil
}

// PopVlan removes the outermost VLAN tag, returning the ethertype that was
// carried inside it (the new outer ethertype) and the remaining tags.
// PopVlan is the exact inverse of PushVlan.
func PopVlan(vlans []Vlan) (wire.EthType, []Vlan, bool) {
	if len(vlans) == 0 {
		return 0, vlans, false
	}
	return vlans[0].EtherType, vlans[1:], true
}
