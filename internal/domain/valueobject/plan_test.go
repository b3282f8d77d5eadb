package valueobject

import (
	"testing"

	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

func planRecord(name, addr string, ttl int) entity.Record {
	return entity.Record{Name: name, Type: entity.RecordTypeA, TTL: ttl, Data: entity.ARData{Addr: addr}}
}

func TestPlan_FilterByOp(t *testing.T) {
	plan := NewPlan("example.com.")
	plan.AddChange(NewAdd(planRecord("a.example.com.", "192.0.2.1", 300)))
	plan.AddChange(NewRemove(planRecord("b.example.com.", "192.0.2.2", 300)))
	plan.AddChange(NewUpdateTTL(planRecord("c.example.com.", "192.0.2.3", 60), 300))
	plan.AddChange(NewAdd(planRecord("d.example.com.", "192.0.2.4", 300)))

	if got := len(plan.Adds()); got != 2 {
		t.Errorf("Adds() = %d, want 2", got)
	}
	if got := len(plan.Removes()); got != 1 {
		t.Errorf("Removes() = %d, want 1", got)
	}
	if got := len(plan.TTLUpdates()); got != 1 {
		t.Errorf("TTLUpdates() = %d, want 1", got)
	}
	if !plan.HasChanges() {
		t.Error("expected HasChanges")
	}
	if NewPlan("example.com.").HasChanges() {
		t.Error("empty plan reports changes")
	}
}

func TestPlan_Sort(t *testing.T) {
	build := func(order []int) *Plan {
		changes := []*Change{
			NewRemove(planRecord("z.example.com.", "192.0.2.9", 300)),
			NewAdd(planRecord("a.example.com.", "192.0.2.1", 300)),
			NewUpdateTTL(planRecord("m.example.com.", "192.0.2.5", 60), 300),
		}
		plan := NewPlan("example.com.")
		for _, i := range order {
			plan.AddChange(changes[i])
		}
		plan.Sort()
		return plan
	}

	first := build([]int{0, 1, 2})
	second := build([]int{2, 0, 1})
	third := build([]int{1, 2, 0})

	if !first.Equals(second) || !first.Equals(third) {
		t.Error("sort order depends on insertion order")
	}

	names := make([]string, 0, 3)
	for _, c := range first.Changes() {
		names = append(names, c.Record().Name)
	}
	want := []string{"a.example.com.", "m.example.com.", "z.example.com."}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestPlan_Equals(t *testing.T) {
	a := NewPlan("example.com.")
	a.AddChange(NewAdd(planRecord("a.example.com.", "192.0.2.1", 300)))

	t.Run("different zone", func(t *testing.T) {
		b := NewPlan("other.net.")
		b.AddChange(NewAdd(planRecord("a.example.com.", "192.0.2.1", 300)))
		if a.Equals(b) {
			t.Error("plans for different zones compared equal")
		}
	})

	t.Run("different op", func(t *testing.T) {
		b := NewPlan("example.com.")
		b.AddChange(NewRemove(planRecord("a.example.com.", "192.0.2.1", 300)))
		if a.Equals(b) {
			t.Error("plans with different ops compared equal")
		}
	})

	t.Run("nil", func(t *testing.T) {
		if a.Equals(nil) {
			t.Error("plan equal to nil")
		}
	})
}

func TestChange_String(t *testing.T) {
	add := NewAdd(planRecord("a.example.com.", "192.0.2.1", 300))
	if got := add.String(); got != "add A a.example.com. 192.0.2.1 (ttl 300)" {
		t.Errorf("add string = %q", got)
	}

	update := NewUpdateTTL(planRecord("a.example.com.", "192.0.2.1", 60), 300)
	if got := update.String(); got != "update-ttl A a.example.com. 192.0.2.1 (300 -> 60)" {
		t.Errorf("update string = %q", got)
	}
}
