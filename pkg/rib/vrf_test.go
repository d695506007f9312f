package rib

import (
	"testing"

	"github.com/fabricgw/gwdataplane/pkg/wire"
)

func TestPlanVrfChangesAddDeleteKeep(t *testing.T) {
	current := []RouterVrfConfig{
		{Name: "default", TableId: 0},
		{Name: "stale", TableId: 5},
	}
	desired := []RouterVrfConfig{
		{Name: "default", TableId: 0},
		{Name: "fresh", TableId: 7},
	}

	plan := PlanVrfChanges(current, desired)
	if len(plan.Keep) != 1 || plan.Keep[0].Name != "default" {
		t.Fatalf("Keep = %+v", plan.Keep)
	}
	if len(plan.Delete) != 1 || plan.Delete[0].Name != "stale" {
		t.Fatalf("Delete = %+v", plan.Delete)
	}
	if len(plan.Add) != 1 || plan.Add[0].Name != "fresh" {
		t.Fatalf("Add = %+v", plan.Add)
	}
}

func TestPlanVrfChangesNeverDeletesVrfZero(t *testing.T) {
	current := []RouterVrfConfig{{Name: "default", TableId: 0}}
	desired := []RouterVrfConfig{}

	plan := PlanVrfChanges(current, desired)
	if len(plan.Delete) != 0 {
		t.Fatalf("Delete = %+v, want VRF 0 never deleted", plan.Delete)
	}
}

func TestPlanVrfChangesVniRebindUnsetsBeforeSets(t *testing.T) {
	vniA := wire.Vni(100)
	vniB := wire.Vni(200)
	current := []RouterVrfConfig{
		{Name: "red", TableId: 10, Vni: &vniA},
	}
	desired := []RouterVrfConfig{
		{Name: "red", TableId: 10, Vni: &vniB},
	}

	plan := PlanVrfChanges(current, desired)
	ops := plan.Ops()
	if len(ops) != 3 {
		t.Fatalf("ops = %+v, want unset, change, then set", ops)
	}
	if ops[0].UnsetVni == nil {
		t.Fatalf("ops[0] = %+v, want a VNI unset first", ops[0])
	}
	if ops[1].Change == nil {
		t.Fatalf("ops[1] = %+v, want the config change", ops[1])
	}
	if ops[2].SetVni == nil {
		t.Fatalf("ops[2] = %+v, want the VNI set last", ops[2])
	}
}

func TestPlanVrfChangesDeletedVrfWithVniUnsetsFirst(t *testing.T) {
	vni := wire.Vni(300)
	current := []RouterVrfConfig{{Name: "blue", TableId: 20, Vni: &vni}}

	plan := PlanVrfChanges(current, nil)
	ops := plan.Ops()
	if len(ops) != 2 {
		t.Fatalf("ops = %+v, want unset then delete", ops)
	}
	if ops[0].UnsetVni == nil {
		t.Fatalf("ops[0] = %+v, want VNI unset before delete", ops[0])
	}
	if ops[1].Delete == nil {
		t.Fatalf("ops[1] = %+v, want the delete", ops[1])
	}
}
