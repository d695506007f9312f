package gwconfig

import (
	"github.com/fabricgw/gwdataplane/pkg/util"
	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// Validate runs §4.6 Apply step 2 against doc: VPC names unique,
// peerings reference existing VPCs, every expose passes §3's five
// checks, and interface references (the VTEP's underlay) are
// consistent. Every failure found is accumulated, not just the first.
func Validate(doc *Document) error {
	b := &util.ValidationBuilder{}

	names := make(map[string]bool, len(doc.Vpcs))
	for _, v := range doc.Vpcs {
		if v.Name == "" {
			b.AddError("vpc missing name")
			continue
		}
		if names[v.Name] {
			b.AddErrorf("duplicate vpc name %q", v.Name)
		}
		names[v.Name] = true
		if _, err := wire.NewVni(v.Vni); err != nil {
			b.AddErrorf("vpc %q: %v", v.Name, err)
		}
	}

	for _, v := range doc.Vpcs {
		for _, p := range v.Peerings {
			if !names[p.Remote] {
				b.AddErrorf("vpc %q: peering references unknown vpc %q", v.Name, p.Remote)
			}
			for _, m := range []ManifestDoc{p.Left, p.Right} {
				for i, ed := range m.Exposes {
					e, err := toExpose(ed)
					if err != nil {
						b.AddErrorf("vpc %q peering %q expose[%d]: %v", v.Name, p.Remote, i, err)
						continue
					}
					if err := e.Validate(); err != nil {
						b.AddErrorf("vpc %q peering %q expose[%d]: %v", v.Name, p.Remote, i, err)
					}
				}
			}
		}
	}

	ifaceNames := make(map[string]bool, len(doc.Interfaces))
	for _, i := range doc.Interfaces {
		ifaceNames[i.Name] = true
	}
	if doc.Vtep.Interface != "" && !ifaceNames[doc.Vtep.Interface] {
		b.AddErrorf("vtep references unknown interface %q", doc.Vtep.Interface)
	}
	if doc.Vtep.Mac != "" {
		if _, err := wire.ParseMac(doc.Vtep.Mac); err != nil {
			b.AddErrorf("vtep mac %q: %v", doc.Vtep.Mac, err)
		}
	}
	if doc.Vtep.LocalIp != "" {
		if _, err := parseAddr(doc.Vtep.LocalIp); err != nil {
			b.AddErrorf("vtep local_ip %q: %v", doc.Vtep.LocalIp, err)
		}
	}

	return b.Build()
}
