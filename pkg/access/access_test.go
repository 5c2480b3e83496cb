package access

import (
	"encoding/json"
	"testing"
)

func TestIsValidAbility(t *testing.T) {
	cases := []struct {
		in  string
		out bool
	}{
		{"", false},
		{"foo", false},
		{"task.view", false},
		{"TASK.CREATE", false},
		{"task.create", true},
		{"task.log.view_all", true},
		{"project.view_all", true},
		{"admin_dashboard.view", true},
	}

	for _, c := range cases {
		if out := IsValidAbility(c.in); out != c.out {
			t.Errorf("IsValidAbility(%q) => %t, want %t", c.in, out, c.out)
		}
	}
}

func TestAbilitiesOrdered(t *testing.T) {
	all := Abilities()
	if len(all) != 16 {
		t.Fatalf("Abilities() => %d entries, want 16", len(all))
	}
	if all[0] != TaskCreate || all[len(all)-1] != AdminDashboard {
		t.Errorf("Abilities() => %v, unexpected order", all)
	}

	// Mutating the copy must not affect the catalog.
	all[0] = "nope"
	if Abilities()[0] != TaskCreate {
		t.Error("Abilities() returned the backing slice")
	}
}

func TestUnmarshalAbility(t *testing.T) {
	var s struct {
		Abilities Set `json:"abilities"`
	}
	if err := json.Unmarshal([]byte(`{"abilities":["task.create","role.delete"]}`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Abilities.Has(RoleDelete) || s.Abilities.Has(TaskDelete) {
		t.Errorf("unexpected set: %v", s.Abilities)
	}

	if err := json.Unmarshal([]byte(`{"abilities":["bogus"]}`), &s); err == nil {
		t.Error("expected an error for an unknown ability")
	}
}
