package gwconfig

import (
	"strings"
	"testing"
)

const sampleYaml = `
generation: 7
vpcs:
  - name: blue
    id: "00112233445566778899aabbccddeeff"
    vni: 100
    peerings: []
interfaces:
  - name: eth0
    ifindex: 2
vtep:
  interface: eth0
  local_ip: 10.0.0.1
  mac: "02:00:00:00:00:01"
`

func TestDecodeParsesDocumentFields(t *testing.T) {
	// Decode only reads fields; checking them (e.g. the 16-byte hex id)
	// is Validate's job, exercised separately.
	doc, err := Decode(strings.NewReader(sampleYaml))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Generation != 7 {
		t.Fatalf("generation = %d, want 7", doc.Generation)
	}
	if len(doc.Vpcs) != 1 || doc.Vpcs[0].Name != "blue" {
		t.Fatalf("vpcs = %+v", doc.Vpcs)
	}
	if doc.Vtep.Interface != "eth0" {
		t.Fatalf("vtep.interface = %q, want eth0", doc.Vtep.Interface)
	}
}

func TestToExposeParsesPrefixStrings(t *testing.T) {
	e, err := toExpose(ExposeDoc{Ips: []string{"10.0.0.0/24"}, As: []string{"1.1.0.0/24"}})
	if err != nil {
		t.Fatalf("toExpose: %v", err)
	}
	if len(e.Ips) != 1 || e.Ips[0].String() != "10.0.0.0/24" {
		t.Fatalf("ips = %+v", e.Ips)
	}
}

func TestToExposeRejectsUnparsablePrefix(t *testing.T) {
	if _, err := toExpose(ExposeDoc{Ips: []string{"not-a-prefix"}}); err == nil {
		t.Fatal("expected an error for an unparsable prefix")
	}
}

func TestToVpcRejectsMalformedId(t *testing.T) {
	_, err := toVpc(VpcDoc{Name: "blue", Id: "not-hex", Vni: 100})
	if err == nil {
		t.Fatal("expected an error for a non-hex id")
	}
}

func TestToVpcRejectsInvalidVni(t *testing.T) {
	_, err := toVpc(VpcDoc{Name: "blue", Id: "00112233445566778899aabbccddeeff", Vni: 0})
	if err == nil {
		t.Fatal("expected an error for vni=0")
	}
}
