package cycles

import (
	"sort"
	"testing"

	"github.com/ritzau/attackgraph/pkg/graph"
)

func TestNoLoopsInAcyclicTopology(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("WebServer", "AppServer", "Config_Error")
	_ = g.AddStep("AppServer", "Database_SQL", "SQL_Injection")

	loops := FindAttackLoops(g)
	if len(loops) != 0 {
		t.Errorf("Expected no loops, got %v", loops)
	}
}

func TestSimpleLoopDetected(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("WebServer", "AppServer", "Config_Error")
	_ = g.AddStep("AppServer", "WebServer", "Shared_Creds")
	_ = g.AddStep("AppServer", "Database_SQL", "SQL_Injection")

	loops := FindAttackLoops(g)
	if len(loops) != 1 {
		t.Fatalf("Expected 1 loop, got %d (%v)", len(loops), loops)
	}

	loop := loops[0]
	sort.Strings(loop)
	if len(loop) != 2 || loop[0] != "AppServer" || loop[1] != "WebServer" {
		t.Errorf("Loop = %v, want [AppServer WebServer]", loop)
	}
}

func TestSelfLoopNotReported(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("WebServer", "WebServer", "Local_Privesc")
	_ = g.AddStep("WebServer", "AppServer", "Config_Error")

	loops := FindAttackLoops(g)
	if len(loops) != 0 {
		t.Errorf("Self-loop should not be reported as attack loop, got %v", loops)
	}
}

func TestMultipleIndependentLoops(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("A", "B", "x")
	_ = g.AddStep("B", "A", "y")
	_ = g.AddStep("C", "D", "x")
	_ = g.AddStep("D", "E", "y")
	_ = g.AddStep("E", "C", "z")
	_ = g.AddStep("B", "C", "bridge")

	loops := FindAttackLoops(g)
	if len(loops) != 2 {
		t.Fatalf("Expected 2 loops, got %d (%v)", len(loops), loops)
	}

	sizes := []int{len(loops[0]), len(loops[1])}
	sort.Ints(sizes)
	if sizes[0] != 2 || sizes[1] != 3 {
		t.Errorf("Loop sizes = %v, want [2 3]", sizes)
	}
}
