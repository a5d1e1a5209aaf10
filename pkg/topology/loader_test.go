package topology

import (
	"strings"
	"testing"
)

const minimalDoc = `
name: two-tier
entry: Internet
asset: Database_SQL
steps:
  - from: Internet
    to: WebServer
    exploit: RCE
  - from: WebServer
    to: Database_SQL
    exploit: SQL_Injection
`

func TestParseMinimalDocument(t *testing.T) {
	doc, g, err := Parse(strings.NewReader(minimalDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Name != "two-tier" {
		t.Errorf("Name = %q, want two-tier", doc.Name)
	}
	if doc.Entry != "Internet" || doc.Asset != "Database_SQL" {
		t.Errorf("Entry/Asset = %q/%q", doc.Entry, doc.Asset)
	}
	if g.NumNodes() != 3 {
		t.Errorf("Expected 3 states, got %d", g.NumNodes())
	}
	if g.NumSteps() != 2 {
		t.Errorf("Expected 2 steps, got %d", g.NumSteps())
	}
}

func TestParsePreservesStepOrder(t *testing.T) {
	const doc = `
name: order
steps:
  - {from: A, to: B, exploit: first}
  - {from: A, to: C, exploit: second}
`
	_, g, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	steps := g.Outgoing("A")
	if len(steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(steps))
	}
	if steps[0].Target != "B" || steps[1].Target != "C" {
		t.Errorf("File order not preserved: %v", steps)
	}
}

func TestParseRejectsEmptyIdentifier(t *testing.T) {
	const doc = `
name: broken
steps:
  - {from: Internet, to: WebServer, exploit: RCE}
  - {from: "", to: AppServer, exploit: Oops}
`
	_, _, err := Parse(strings.NewReader(doc))
	if err == nil {
		t.Fatal("Expected error for empty identifier")
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("Error should name the offending step, got %v", err)
	}
}

func TestParseRejectsEmptyStepList(t *testing.T) {
	_, _, err := Parse(strings.NewReader("name: empty\nsteps: []\n"))
	if err == nil {
		t.Fatal("Expected error for topology without steps")
	}
}

func TestParseRejectsUnknownEntry(t *testing.T) {
	const doc = `
name: bad-entry
entry: Mainframe
steps:
  - {from: Internet, to: WebServer, exploit: RCE}
`
	_, _, err := Parse(strings.NewReader(doc))
	if err == nil {
		t.Fatal("Expected error for entry state missing from steps")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	const doc = `
name: typo
stepz:
  - {from: A, to: B, exploit: x}
`
	_, _, err := Parse(strings.NewReader(doc))
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
}

func TestSampleScenario(t *testing.T) {
	doc, g := Sample()
	if doc.Entry != "Internet" || doc.Asset != "Database_SQL" {
		t.Errorf("Sample Entry/Asset = %q/%q", doc.Entry, doc.Asset)
	}
	if g.NumNodes() != 8 {
		t.Errorf("Sample should have 8 states, got %d", g.NumNodes())
	}
	if g.NumSteps() != 10 {
		t.Errorf("Sample should have 10 steps, got %d", g.NumSteps())
	}
}
