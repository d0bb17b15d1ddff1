package model

import "testing"

// defaultDefinition is a small two-line facility: one coal and one water
// supply feeding two parallel process trains into a shared junction.
func defaultDefinition() *Definition {
	return &Definition{
		Name: "test-facility",
		Nodes: []Node{
			{ID: "coal", Type: "stockpile", Role: RoleSupply, Commodity: "coal", CapFraction: 1.0, CostFraction: 0.05},
			{ID: "water", Type: "intake", Role: RoleSupply, Commodity: "water", CapFraction: 1.0, CostFraction: 0.05},
			{ID: "train_a", Type: "boiler", Role: RoleTranshipment, Capacity: 100, CostFraction: 0.3},
			{ID: "train_b", Type: "boiler", Role: RoleTranshipment, Capacity: 100, CostFraction: 0.3},
			{ID: "junction", Type: "transformer", Role: RoleTranshipment, Capacity: 200, CostFraction: 0.1},
			{ID: "ctrl", Type: "control", Role: RoleDependency, CostFraction: 0.1},
			{ID: "out_2", Type: "switchyard", Role: RoleOutput, Demand: 100, Priority: 2, CostFraction: 0.05},
			{ID: "out_1", Type: "switchyard", Role: RoleOutput, Demand: 100, Priority: 1, CostFraction: 0.05},
		},
		Edges: []Edge{
			{From: "coal", To: "train_a", Capacity: 100},
			{From: "coal", To: "train_b", Capacity: 100},
			{From: "water", To: "train_a", Capacity: 100},
			{From: "water", To: "train_b", Capacity: 100},
			{From: "train_a", To: "junction", Capacity: 100},
			{From: "train_b", To: "junction", Capacity: 100},
			{From: "junction", To: "out_1", Capacity: 100},
			{From: "junction", To: "out_2", Capacity: 100},
			{From: "ctrl", To: "junction"},
		},
	}
}

func TestBuild(t *testing.T) {
	f, err := Build(defaultDefinition())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if f.Name != "test-facility" {
		t.Errorf("name = %q, want %q", f.Name, "test-facility")
	}
	if len(f.Nodes) != 8 || len(f.Edges) != 9 {
		t.Errorf("got %d nodes, %d edges, want 8 and 9", len(f.Nodes), len(f.Edges))
	}

	ci, ok := f.Index("coal")
	if !ok {
		t.Fatal("missing index for coal")
	}
	if got := len(f.Out(ci)); got != 2 {
		t.Errorf("coal out-degree = %d, want 2", got)
	}

	ji, _ := f.Index("junction")
	if got := len(f.In(ji)); got != 3 {
		t.Errorf("junction in-degree = %d, want 3", got)
	}
}

func TestBuildOutputsByPriority(t *testing.T) {
	f, err := Build(defaultDefinition())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	outputs := f.OutputsByPriority()
	if len(outputs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outputs))
	}
	// out_1 is declared after out_2 but ranks first.
	if f.Nodes[outputs[0]].ID != "out_1" || f.Nodes[outputs[1]].ID != "out_2" {
		t.Errorf("priority order = %s, %s, want out_1, out_2",
			f.Nodes[outputs[0]].ID, f.Nodes[outputs[1]].ID)
	}
}

func TestBuildSupplyByCommodity(t *testing.T) {
	f, err := Build(defaultDefinition())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	supplies := f.SupplyByCommodity()
	if len(supplies) != 2 {
		t.Fatalf("got %d commodities, want 2", len(supplies))
	}
	for _, commodity := range []string{"coal", "water"} {
		if len(supplies[commodity]) != 1 {
			t.Errorf("commodity %q has %d supplies, want 1", commodity, len(supplies[commodity]))
		}
	}
}

func TestBuildDuplicateID(t *testing.T) {
	def := defaultDefinition()
	def.Nodes = append(def.Nodes, Node{ID: "coal", Type: "stockpile", Role: RoleSupply})
	if _, err := Build(def); err == nil {
		t.Error("expected error for duplicate node id")
	}
}

func TestBuildUnknownEndpoint(t *testing.T) {
	def := defaultDefinition()
	def.Edges = append(def.Edges, Edge{From: "coal", To: "nowhere"})
	if _, err := Build(def); err == nil {
		t.Error("expected error for unknown edge endpoint")
	}
}

func TestBuildBidirectionalAdjacency(t *testing.T) {
	def := defaultDefinition()
	def.Edges[4].Bidirectional = true // train_a <-> junction
	f, err := Build(def)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ji, _ := f.Index("junction")
	ai, _ := f.Index("train_a")
	found := false
	for _, ei := range f.Out(ji) {
		if f.Neighbor(ji, ei) == ai {
			found = true
		}
	}
	if !found {
		t.Error("bidirectional edge not traversable from junction back to train_a")
	}
}

func TestNominalDemand(t *testing.T) {
	f, err := Build(defaultDefinition())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := f.NominalDemand(); got != 200 {
		t.Errorf("nominal demand = %v, want 200", got)
	}
}
