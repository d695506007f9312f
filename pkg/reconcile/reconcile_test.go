package reconcile

import (
	"context"
	"testing"
)

type fakeReq struct {
	Mtu int
}

type fakeObs struct {
	name string
	mtu  int
	other bool
}

func (o fakeObs) AsRequirement() fakeReq { return fakeReq{Mtu: o.mtu} }
func (o fakeObs) Name() string           { return o.name }
func (o fakeObs) IsOther() bool          { return o.other }

type fakeDriver struct {
	observed []fakeObs
	created  []string
	updated  []string
	removed  []string
	failNext bool
}

func (d *fakeDriver) Observe(ctx context.Context) ([]fakeObs, error) {
	return d.observed, nil
}

func (d *fakeDriver) Create(ctx context.Context, name string, req fakeReq) error {
	d.created = append(d.created, name)
	d.observed = append(d.observed, fakeObs{name: name, mtu: req.Mtu})
	return nil
}

func (d *fakeDriver) Update(ctx context.Context, req fakeReq, obs fakeObs) error {
	if d.failNext {
		d.failNext = false
		return context.DeadlineExceeded
	}
	d.updated = append(d.updated, obs.name)
	for i, o := range d.observed {
		if o.name == obs.name {
			d.observed[i].mtu = req.Mtu
		}
	}
	return nil
}

func (d *fakeDriver) Remove(ctx context.Context, obs fakeObs) error {
	d.removed = append(d.removed, obs.name)
	var out []fakeObs
	for _, o := range d.observed {
		if o.name != obs.name {
			out = append(out, o)
		}
	}
	d.observed = out
	return nil
}

func TestPassCreatesMissingRequired(t *testing.T) {
	d := &fakeDriver{}
	required := map[string]fakeReq{"eth0": {Mtu: 1500}}

	done, err := Pass[fakeReq, fakeObs](context.Background(), d, required)
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if done {
		t.Fatal("expected not quiescent on the pass that creates a resource")
	}
	if len(d.created) != 1 {
		t.Fatalf("created = %d, want 1", len(d.created))
	}
}

func TestPassRemovesUnrequiredUnlessOther(t *testing.T) {
	d := &fakeDriver{observed: []fakeObs{
		{name: "stray", mtu: 1500},
		{name: "kept-other", mtu: 1500, other: true},
	}}

	done, err := Pass[fakeReq, fakeObs](context.Background(), d, map[string]fakeReq{})
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if done {
		t.Fatal("expected not quiescent")
	}
	if len(d.removed) != 1 || d.removed[0] != "stray" {
		t.Fatalf("removed = %v, want [stray]", d.removed)
	}
}

func TestPassUpdatesOnMismatchAndNoOpsOnMatch(t *testing.T) {
	d := &fakeDriver{observed: []fakeObs{{name: "eth0", mtu: 1400}}}
	required := map[string]fakeReq{"eth0": {Mtu: 1500}}

	done, err := Pass[fakeReq, fakeObs](context.Background(), d, required)
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if done {
		t.Fatal("expected not quiescent after an update")
	}
	if len(d.updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(d.updated))
	}

	done, err = Pass[fakeReq, fakeObs](context.Background(), d, required)
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if !done {
		t.Fatal("expected quiescent once requirement and observation match")
	}
}

func TestLoopConvergesWithinBudget(t *testing.T) {
	d := &fakeDriver{observed: []fakeObs{{name: "eth0", mtu: 1400}}}
	required := map[string]fakeReq{"eth0": {Mtu: 1500}}

	passes, converged, err := Loop[fakeReq, fakeObs](context.Background(), d, required, 30)
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if !converged {
		t.Fatal("expected convergence within budget")
	}
	if passes < 2 {
		t.Fatalf("passes = %d, want at least 2 (update then no-op)", passes)
	}
}

func TestLoopRetriesAfterTransientUpdateFailure(t *testing.T) {
	d := &fakeDriver{observed: []fakeObs{{name: "eth0", mtu: 1400}}, failNext: true}
	required := map[string]fakeReq{"eth0": {Mtu: 1500}}

	passes, converged, err := Loop[fakeReq, fakeObs](context.Background(), d, required, 30)
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if !converged {
		t.Fatal("expected eventual convergence after the transient failure is retried")
	}
	if passes < 3 {
		t.Fatalf("passes = %d, want at least 3 (failed update, successful update, no-op)", passes)
	}
}
