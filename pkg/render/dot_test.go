package render

import (
	"strings"
	"testing"

	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/search"
)

func demoGraph(t *testing.T) *graph.AttackGraph {
	t.Helper()
	g := graph.New()
	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("WebServer", "Database_SQL", "SQL_Injection")
	_ = g.AddStep("Internet", "VPN_Gateway", "Weak_Credentials")
	return g
}

func TestWriteDOTPlainGraph(t *testing.T) {
	g := demoGraph(t)

	var sb strings.Builder
	if err := WriteDOT(&sb, g, nil); err != nil {
		t.Fatalf("WriteDOT() error = %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "digraph attackgraph {") {
		t.Errorf("Missing digraph header:\n%s", out)
	}
	for _, want := range []string{
		`"Internet"`,
		`"Internet" -> "WebServer" [label="RCE"]`,
		`"WebServer" -> "Database_SQL" [label="SQL_Injection"]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "color=red") {
		t.Error("Plain render should not highlight anything")
	}
}

func TestWriteDOTHighlightsPath(t *testing.T) {
	g := demoGraph(t)
	path, err := search.FindShortestPath(g, "Internet", "Database_SQL")
	if err != nil {
		t.Fatalf("FindShortestPath() error = %v", err)
	}

	var sb strings.Builder
	if err := WriteDOT(&sb, g, path); err != nil {
		t.Fatalf("WriteDOT() error = %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, `"Internet" [fillcolor=red, fontcolor=white];`) {
		t.Errorf("Path node not highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"Internet" -> "WebServer" [label="RCE", color=red, penwidth=2.5];`) {
		t.Errorf("Path edge not highlighted:\n%s", out)
	}
	// Off-path edge stays unhighlighted.
	if !strings.Contains(out, `"Internet" -> "VPN_Gateway" [label="Weak_Credentials"];`) {
		t.Errorf("Off-path edge altered:\n%s", out)
	}
}

func TestWriteDOTQuotesSpecialCharacters(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("Internet", "WebServer", `CVE-2023-XYZ "RCE"`)

	var sb strings.Builder
	if err := WriteDOT(&sb, g, nil); err != nil {
		t.Fatalf("WriteDOT() error = %v", err)
	}
	if !strings.Contains(sb.String(), `label="CVE-2023-XYZ \"RCE\""`) {
		t.Errorf("Exploit label not escaped:\n%s", sb.String())
	}
}

func TestWriteDOTCollapsesParallelSteps(t *testing.T) {
	g := graph.New()
	_ = g.AddStep("Internet", "WebServer", "RCE")
	_ = g.AddStep("Internet", "WebServer", "Weak_Credentials")

	var sb strings.Builder
	if err := WriteDOT(&sb, g, nil); err != nil {
		t.Fatalf("WriteDOT() error = %v", err)
	}
	out := sb.String()

	if strings.Count(out, `"Internet" -> "WebServer"`) != 1 {
		t.Errorf("Parallel steps should draw one edge:\n%s", out)
	}
	if !strings.Contains(out, `label="Weak_Credentials"`) {
		t.Errorf("Drawn edge should carry the last inserted exploit:\n%s", out)
	}
}
