// Package vpc models the tenant configuration surface: VPCs, their
// peerings, and the expose rules a peering's manifests carry, plus the
// five-check validator every expose must pass before it can compile
// into NAT tables.
package vpc

import (
	"net/netip"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// Id is a VPC's 16-byte identifier.
type Id [16]byte

// Vpc is a tenant's logical network instance: a name, an id, the VNI it
// rides on the overlay, and the peerings it participates in.
type Vpc struct {
	Name     string
	Id       Id
	Vni      wire.Vni
	Peerings []Peering
}

// Peering is a directional rule-set joining this VPC to a Remote VPC,
// carrying one manifest for each side of the relationship.
type Peering struct {
	Remote string
	Left   Manifest
	Right  Manifest
}

// Manifest lists the exposes one side of a peering publishes.
type Manifest struct {
	Exposes []Expose
}

// Expose describes which private prefixes of one side map to which
// public prefixes of the other, each as four ordered, non-overlapping
// prefix sets: Ips (private allowed), Nots (private excluded), As
// (public allowed), NotAs (public excluded).
type Expose struct {
	Ips   []netip.Prefix
	Nots  []netip.Prefix
	As    []netip.Prefix
	NotAs []netip.Prefix
}
