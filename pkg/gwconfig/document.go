// Package gwconfig defines the external GwConfig document submitted to
// the configuration processor, its validation against §4.6 step 2, and
// its compilation into the internal form the reconciler and routing
// daemon render consume (§4.6 step 3).
package gwconfig

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/netip"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fabricgw/gwdataplane/pkg/vpc"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// GenId is the wire form of a configuration generation id: a fixed
// 8-byte field at the FRRMI boundary (§4.6).
type GenId uint64

// NewGenId derives a GenId from a random UUID's low 8 bytes, used when a
// submitter omits a generation id.
func NewGenId() GenId {
	id := uuid.New()
	b := id[8:16]
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return GenId(v)
}

// Document is the external GwConfig as submitted over ApplyConfig: a
// list of VPCs, the interfaces the dataplane already owns, and the
// underlay VTEP binding.
type Document struct {
	Generation uint64         `yaml:"generation" json:"generation"`
	Vpcs       []VpcDoc       `yaml:"vpcs" json:"vpcs"`
	Interfaces []InterfaceDoc `yaml:"interfaces" json:"interfaces"`
	Vtep       VtepDoc        `yaml:"vtep" json:"vtep"`
}

// VpcDoc is one VPC's external representation: a hex-encoded 16-byte id,
// a VNI, and the peerings it participates in.
type VpcDoc struct {
	Name     string       `yaml:"name" json:"name"`
	Id       string        `yaml:"id" json:"id"`
	Vni      uint32       `yaml:"vni" json:"vni"`
	Peerings []PeeringDoc `yaml:"peerings" json:"peerings"`
}

// PeeringDoc names the remote VPC and carries the two manifests of a
// peering relationship.
type PeeringDoc struct {
	Remote string      `yaml:"remote" json:"remote"`
	Left   ManifestDoc `yaml:"left" json:"left"`
	Right  ManifestDoc `yaml:"right" json:"right"`
}

// ManifestDoc lists the exposes one side of a peering publishes.
type ManifestDoc struct {
	Exposes []ExposeDoc `yaml:"exposes" json:"exposes"`
}

// ExposeDoc is an Expose's external, string-prefix representation.
type ExposeDoc struct {
	Ips   []string `yaml:"ips" json:"ips"`
	Nots  []string `yaml:"nots" json:"nots"`
	As    []string `yaml:"as" json:"as"`
	NotAs []string `yaml:"not_as" json:"not_as"`
}

// InterfaceDoc names one kernel interface the dataplane is allowed to
// reference, e.g. as the VTEP's underlay.
type InterfaceDoc struct {
	Name    string `yaml:"name" json:"name"`
	Ifindex uint32 `yaml:"ifindex" json:"ifindex"`
}

// VtepDoc binds the process-wide VXLAN tunnel endpoint identity to an
// underlay interface, local address and MAC.
type VtepDoc struct {
	Interface string `yaml:"interface" json:"interface"`
	LocalIp   string `yaml:"local_ip" json:"local_ip"`
	Mac       string `yaml:"mac" json:"mac"`
}

// Decode reads a YAML-encoded Document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("gwconfig: decode: %w", err)
	}
	return &doc, nil
}

func parsePrefixes(ss []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(ss))
	for _, s := range ss {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func toExpose(d ExposeDoc) (vpc.Expose, error) {
	ips, err := parsePrefixes(d.Ips)
	if err != nil {
		return vpc.Expose{}, fmt.Errorf("ips: %w", err)
	}
	nots, err := parsePrefixes(d.Nots)
	if err != nil {
		return vpc.Expose{}, fmt.Errorf("nots: %w", err)
	}
	as, err := parsePrefixes(d.As)
	if err != nil {
		return vpc.Expose{}, fmt.Errorf("as: %w", err)
	}
	notAs, err := parsePrefixes(d.NotAs)
	if err != nil {
		return vpc.Expose{}, fmt.Errorf("not_as: %w", err)
	}
	return vpc.Expose{Ips: ips, Nots: nots, As: as, NotAs: notAs}, nil
}

func toManifest(d ManifestDoc) (vpc.Manifest, error) {
	exposes := make([]vpc.Expose, 0, len(d.Exposes))
	for i, ed := range d.Exposes {
		e, err := toExpose(ed)
		if err != nil {
			return vpc.Manifest{}, fmt.Errorf("expose[%d]: %w", i, err)
		}
		exposes = append(exposes, e)
	}
	return vpc.Manifest{Exposes: exposes}, nil
}

// toVpc converts one VpcDoc into its internal vpc.Vpc, assuming it has
// already passed Validate.
func toVpc(d VpcDoc) (vpc.Vpc, error) {
	var id vpc.Id
	raw, err := hex.DecodeString(d.Id)
	if err != nil || len(raw) != len(id) {
		return vpc.Vpc{}, fmt.Errorf("id %q: not a 16-byte hex string", d.Id)
	}
	copy(id[:], raw)

	vni, err := wire.NewVni(d.Vni)
	if err != nil {
		return vpc.Vpc{}, fmt.Errorf("vni: %w", err)
	}

	peerings := make([]vpc.Peering, 0, len(d.Peerings))
	for i, pd := range d.Peerings {
		left, err := toManifest(pd.Left)
		if err != nil {
			return vpc.Vpc{}, fmt.Errorf("peering[%d].left: %w", i, err)
		}
		right, err := toManifest(pd.Right)
		if err != nil {
			return vpc.Vpc{}, fmt.Errorf("peering[%d].right: %w", i, err)
		}
		peerings = append(peerings, vpc.Peering{Remote: pd.Remote, Left: left, Right: right})
	}

	return vpc.Vpc{Name: d.Name, Id: id, Vni: vni, Peerings: peerings}, nil
}
