// Package topology turns topology documents into attack graphs.
package topology

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/logging"
)

// Document is the on-disk topology format: a named scenario plus an
// ordered list of attack steps. Step order in the file is preserved in the
// graph and matters for shortest-path tie-breaking.
type Document struct {
	Name  string `yaml:"name"`
	Entry string `yaml:"entry,omitempty"`  // default entry state for searches
	Asset string `yaml:"asset,omitempty"`  // default target asset for searches
	Steps []Step `yaml:"steps"`
}

// Step is one attack step declaration.
type Step struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Exploit string `yaml:"exploit"`
}

// Load reads a topology file and builds its attack graph.
func Load(path string) (*Document, *graph.AttackGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open topology %s: %w", path, err)
	}
	defer f.Close()

	doc, g, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("topology %s: %w", path, err)
	}

	logging.Info("loaded topology",
		"path", path,
		"name", doc.Name,
		"states", g.NumNodes(),
		"steps", g.NumSteps(),
	)
	return doc, g, nil
}

// Parse decodes a topology document and builds its attack graph. Steps
// with empty identifiers are rejected with their position in the document.
func Parse(r io.Reader) (*Document, *graph.AttackGraph, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	if len(doc.Steps) == 0 {
		return nil, nil, fmt.Errorf("topology %q has no attack steps", doc.Name)
	}

	g := graph.New()
	for i, step := range doc.Steps {
		if err := g.AddStep(step.From, step.To, step.Exploit); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	if doc.Entry != "" && !g.HasNode(doc.Entry) {
		return nil, nil, fmt.Errorf("entry state %q does not appear in any step", doc.Entry)
	}
	if doc.Asset != "" && !g.HasNode(doc.Asset) {
		logging.Warn("asset state does not appear in any step; searches will find no path",
			"asset", doc.Asset)
	}

	return &doc, g, nil
}
