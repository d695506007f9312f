package wire

import "fmt"

// EthType is the 16-bit EtherType/length field of an Ethernet header.
type EthType uint16

// Well-known EtherType values referenced by the header dispatch chain.
const (
	EthTypeIPv4            EthType = 0x0800
	EthTypeARP             EthType = 0x0806
	EthTypeVlan            EthType = 0x8100 // 802.1Q
	EthTypeQinQ            EthType = 0x88a8 // 802.1ad
	EthTypeProviderBridge  EthType = 0x9100
	EthTypeIPv6            EthType = 0x86dd
	EthTypeMpls            EthType = 0x8847
)

// IsVlanTag reports whether t identifies any of the VLAN/QinQ/provider-bridge
// tag protocol identifiers the header stack recognizes as "push a Vlan".
func (t EthType) IsVlanTag() bool {
	switch t {
	case EthTypeVlan, EthTypeQinQ, EthTypeProviderBridge:
		return true
	default:
		return false
	}
}

func (t EthType) String() string {
	switch t {
	case EthTypeIPv4:
		return "IPv4"
	case EthTypeARP:
		return "ARP"
	case EthTypeVlan:
		return "802.1Q"
	case EthTypeQinQ:
		return "802.1ad"
	case EthTypeProviderBridge:
		return "ProviderBridge"
	case EthTypeIPv6:
		return "IPv6"
	case EthTypeMpls:
		return "MPLS"
	default:
		return fmt.Sprintf("0x%04x", uint16(t))
	}
}
