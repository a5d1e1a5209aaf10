package graph

import (
	"testing"
)

func TestNewAttackGraph(t *testing.T) {
	g := New()
	if g == nil {
		t.Fatal("New() returned nil")
	}
	if g.NumNodes() != 0 {
		t.Errorf("New graph should have 0 nodes, got %d", g.NumNodes())
	}
	if g.NumSteps() != 0 {
		t.Errorf("New graph should have 0 steps, got %d", g.NumSteps())
	}
}

func TestAddStepMaterializesBothStates(t *testing.T) {
	g := New()

	if err := g.AddStep("Internet", "WebServer", "CVE-2023-XYZ (RCE)"); err != nil {
		t.Fatalf("AddStep() error = %v", err)
	}

	if !g.HasNode("Internet") {
		t.Error("Source state not materialized")
	}
	if !g.HasNode("WebServer") {
		t.Error("Target state not materialized")
	}
	if g.HasNode("Database_SQL") {
		t.Error("HasNode() true for state never inserted")
	}
}

func TestAddStepRejectsEmptyIdentifiers(t *testing.T) {
	g := New()

	if err := g.AddStep("", "WebServer", "RCE"); err == nil {
		t.Error("Expected error for empty source")
	}
	if err := g.AddStep("Internet", "", "RCE"); err == nil {
		t.Error("Expected error for empty target")
	}
	if err := g.AddStep("Internet", "WebServer", ""); err == nil {
		t.Error("Expected error for empty exploit")
	}
	if g.NumSteps() != 0 {
		t.Errorf("Rejected steps should not be stored, got %d", g.NumSteps())
	}
}

func TestOutgoingPreservesInsertionOrder(t *testing.T) {
	g := New()

	_ = g.AddStep("WebServer", "AppServer", "Config_Error")
	_ = g.AddStep("WebServer", "FileServer", "SMB_Exploit")

	steps := g.Outgoing("WebServer")
	if len(steps) != 2 {
		t.Fatalf("Expected 2 outgoing steps, got %d", len(steps))
	}
	if steps[0].Target != "AppServer" || steps[1].Target != "FileServer" {
		t.Errorf("Insertion order not preserved: %v", steps)
	}
}

func TestOutgoingUnknownStateIsEmpty(t *testing.T) {
	g := New()
	_ = g.AddStep("Internet", "WebServer", "RCE")

	if steps := g.Outgoing("Database_SQL"); len(steps) != 0 {
		t.Errorf("Expected no steps for unknown state, got %v", steps)
	}
	// A state that only appears as a target has no outgoing steps either.
	if steps := g.Outgoing("WebServer"); len(steps) != 0 {
		t.Errorf("Expected no steps for sink state, got %v", steps)
	}
}

func TestDuplicateStepsAreStoredDistinct(t *testing.T) {
	g := New()

	_ = g.AddStep("Internet", "WebServer", "RCE")
	if g.NumSteps() != 1 {
		t.Fatalf("Expected 1 step, got %d", g.NumSteps())
	}

	// Identical step again: stored, not merged.
	_ = g.AddStep("Internet", "WebServer", "RCE")
	if g.NumSteps() != 2 {
		t.Errorf("Expected 2 steps after duplicate insert, got %d", g.NumSteps())
	}

	// Parallel step with a different exploit.
	_ = g.AddStep("Internet", "WebServer", "Weak_Credentials")
	if len(g.Outgoing("Internet")) != 3 {
		t.Errorf("Expected 3 outgoing steps, got %d", len(g.Outgoing("Internet")))
	}
}

func TestLabelKeepsLastInsertedExploit(t *testing.T) {
	g := New()

	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("Internet", "WebServer", "Weak_Credentials")

	label, ok := g.Label("Internet", "WebServer")
	if !ok {
		t.Fatal("Label() not found for inserted pair")
	}
	if label != "Weak_Credentials" {
		t.Errorf("Expected last inserted label, got %q", label)
	}
}

func TestSelfLoopIsStored(t *testing.T) {
	g := New()

	if err := g.AddStep("WebServer", "WebServer", "Local_Privesc"); err != nil {
		t.Fatalf("AddStep() self-loop error = %v", err)
	}
	steps := g.Outgoing("WebServer")
	if len(steps) != 1 || steps[0].Target != "WebServer" {
		t.Errorf("Self-loop not stored: %v", steps)
	}
}

func TestDirectedMirrorDeduplicates(t *testing.T) {
	g := New()

	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("Internet", "WebServer", "Weak_Credentials")

	from, _ := g.NodeID("Internet")
	to, _ := g.NodeID("WebServer")
	if !g.Directed().HasEdgeFromTo(from, to) {
		t.Fatal("Mirror missing edge for inserted pair")
	}

	edges := 0
	iter := g.Directed().Edges()
	for iter.Next() {
		edges++
	}
	if edges != 1 {
		t.Errorf("Expected 1 mirror edge for parallel steps, got %d", edges)
	}
}

func TestNodesFirstSeenOrder(t *testing.T) {
	g := New()

	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("WebServer", "AppServer", "Config_Error")

	want := []string{"Internet", "WebServer", "AppServer"}
	got := g.Nodes()
	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
