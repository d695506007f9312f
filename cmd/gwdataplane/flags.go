package main

import (
	"fmt"
	"strings"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

// options holds every startup flag from spec.md §6, parsed and validated
// once at the start of the root command's RunE (run), mirroring the
// teacher's App pattern (cmd/newtron/main.go) of one flat options struct
// shared by the root command.
type options struct {
	mainLcore       int
	lcores          string
	allow           []string
	hugeWorkerStack int
	socketMem       string
	iovaMode        string
	logLevels       []string
	driver          string
	interfaces      []string
	numWorkers      int
	grpcAddress     string
	grpcUnixSocket  bool
	cpiSockPath     string
	cliSockPath     string
	frrAgentPath    string
	metricsAddress  string
	redisAddress    string
	reconcileEvery  string

	allowed        []wire.PciAddress
	interfaceSpecs []interfaceSpec
}

// interfaceSpec is one parsed --interface NAME[=PCIADDR] entry.
type interfaceSpec struct {
	Name string
	Pci  *wire.PciAddress
}

func (o *options) validate() error {
	if o.numWorkers < 1 || o.numWorkers > 64 {
		return fmt.Errorf("--num-workers must be in 1..=64, got %d", o.numWorkers)
	}
	if o.driver != "kernel" && o.driver != "dpdk" {
		return fmt.Errorf("--driver must be kernel or dpdk, got %q", o.driver)
	}
	if o.iovaMode != "" && o.iovaMode != "va" && o.iovaMode != "pa" {
		return fmt.Errorf("--iova-mode must be va or pa, got %q", o.iovaMode)
	}

	o.allowed = o.allowed[:0]
	for _, s := range o.allow {
		pci, err := wire.ParsePciAddress(s)
		if err != nil {
			return fmt.Errorf("--allow %q: %w", s, err)
		}
		o.allowed = append(o.allowed, pci)
	}

	o.interfaceSpecs = o.interfaceSpecs[:0]
	for _, raw := range splitRepeatable(o.interfaces) {
		spec, err := parseInterfaceSpec(raw)
		if err != nil {
			return fmt.Errorf("--interface %q: %w", raw, err)
		}
		o.interfaceSpecs = append(o.interfaceSpecs, spec)
	}

	return nil
}

// splitRepeatable flattens comma-separated entries from a repeatable
// flag, per §6's "comma-sep or repeatable" grammar for --interface.
func splitRepeatable(vals []string) []string {
	var out []string
	for _, v := range vals {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func parseInterfaceSpec(raw string) (interfaceSpec, error) {
	name, pciStr, hasPci := strings.Cut(raw, "=")
	if !validKernelInterfaceName(name) {
		return interfaceSpec{}, fmt.Errorf("invalid kernel interface name %q", name)
	}
	spec := interfaceSpec{Name: name}
	if hasPci {
		pci, err := wire.ParsePciAddress(pciStr)
		if err != nil {
			return interfaceSpec{}, err
		}
		spec.Pci = &pci
	}
	return spec, nil
}

// validKernelInterfaceName enforces Linux's IFNAMSIZ-1 length limit and
// its ban on '/' and whitespace.
func validKernelInterfaceName(name string) bool {
	if name == "" || len(name) > 15 {
		return false
	}
	return !strings.ContainsAny(name, "/ \t\n")
}

// logLevelOverrides splits --log-level's repeatable "pkg=level" entries
// from a single bare global level. logrus has no per-package level
// knob, so a pkg-scoped entry is recorded but only logged, not applied.
func logLevelOverrides(vals []string) (global string, scoped map[string]string) {
	scoped = make(map[string]string)
	for _, v := range vals {
		pkg, level, ok := strings.Cut(v, "=")
		if !ok {
			global = pkg
			continue
		}
		scoped[pkg] = level
	}
	return global, scoped
}

