package frrmi

import "github.com/fabricgw/gwdataplane/pkg/util"

// keepaliveSender is the subset of Client's surface a Prober needs,
// narrowed so callers can substitute a fake peer in tests.
type keepaliveSender interface {
	Probe() bool
}

// Prober drives periodic KEEPALIVE probes against a Client and logs
// only on up/down transitions, not on every probe.
type Prober struct {
	client keepaliveSender
	up     bool
	known  bool
}

// NewProber wraps client for periodic probing.
func NewProber(client keepaliveSender) *Prober {
	return &Prober{client: client}
}

// Probe sends one KEEPALIVE and returns whether the peer is currently
// up, logging if this call's result differs from the last one's.
func (p *Prober) Probe() bool {
	up := p.client.Probe()
	if !p.known || up != p.up {
		log := util.WithField("component", "frrmi")
		if up {
			log.Info("frr agent is up")
		} else {
			log.Warn("frr agent is down")
		}
	}
	p.up = up
	p.known = true
	return up
}

// Up reports the last probe's result without sending a new one. It
// returns false until the first Probe call.
func (p *Prober) Up() bool { return p.known && p.up }
