package vpc

import (
	"net/netip"
	"testing"
)

func mustPrefixes(t *testing.T, strs ...string) []netip.Prefix {
	t.Helper()
	out := make([]netip.Prefix, 0, len(strs))
	for _, s := range strs {
		out = append(out, netip.MustParsePrefix(s))
	}
	return out
}

func TestExposeValidatesStaticNatExample(t *testing.T) {
	e := Expose{
		Ips:   mustPrefixes(t, "1.1.0.0/16", "1.2.0.0/16"),
		Nots:  mustPrefixes(t, "1.1.5.0/24", "1.1.3.0/24", "1.1.1.0/24"),
		As:    mustPrefixes(t, "2.1.0.0/16", "2.2.0.0/16"),
		NotAs: mustPrefixes(t, "2.1.8.0/24", "2.2.10.0/24", "2.2.11.0/24"),
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestExposeRejectsMismatchedPrefixSizes(t *testing.T) {
	e := Expose{
		Ips:   mustPrefixes(t, "1.1.0.0/16", "1.2.0.0/16"),
		Nots:  mustPrefixes(t, "1.1.5.0/24", "1.1.3.0/24", "1.1.1.0/24", "1.2.2.0/24"),
		As:    mustPrefixes(t, "2.1.0.0/16", "2.2.0.0/16"),
		NotAs: mustPrefixes(t, "2.1.8.0/24", "2.2.10.0/24"),
	}
	err := e.Validate()
	if err == nil {
		t.Fatal("expected MismatchedPrefixSizes rejection")
	}
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) || cfgErr.Kind != MismatchedPrefixSizes {
		t.Fatalf("err = %v, want ConfigError{Kind: MismatchedPrefixSizes}", err)
	}
}

func TestExposeRejectsMixedFamily(t *testing.T) {
	e := Expose{
		Ips: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("2001:db8::/32")},
	}
	err := e.Validate()
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) || cfgErr.Kind != InconsistentIpVersion {
		t.Fatalf("err = %v, want InconsistentIpVersion", err)
	}
}

func TestExposeRejectsOverlappingPrefixes(t *testing.T) {
	e := Expose{Ips: mustPrefixes(t, "10.0.0.0/16", "10.0.128.0/24")}
	err := e.Validate()
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) || cfgErr.Kind != OverlappingPrefixes {
		t.Fatalf("err = %v, want OverlappingPrefixes", err)
	}
}

func TestExposeRejectsExclusionOutsideAllow(t *testing.T) {
	e := Expose{
		Ips:  mustPrefixes(t, "10.0.0.0/24"),
		Nots: mustPrefixes(t, "10.1.0.0/24"),
	}
	err := e.Validate()
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) || cfgErr.Kind != OutOfRangeExclusionPrefix {
		t.Fatalf("err = %v, want OutOfRangeExclusionPrefix", err)
	}
}

func TestExposeRejectsExcludingEverything(t *testing.T) {
	e := Expose{
		Ips:  mustPrefixes(t, "10.0.0.0/24"),
		Nots: mustPrefixes(t, "10.0.0.0/24"),
	}
	err := e.Validate()
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) || cfgErr.Kind != ExcludedAllPrefixes {
		t.Fatalf("err = %v, want ExcludedAllPrefixes", err)
	}
}

func TestExposeWithNoAsSkipsSizeCheck(t *testing.T) {
	e := Expose{Ips: mustPrefixes(t, "10.0.0.0/24")}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v, want nil when as is empty", err)
	}
}

func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
