package graph

import (
	"fmt"

	"github.com/ritzau/attackgraph/pkg/model"
	"gonum.org/v1/gonum/graph/simple"
)

// outgoing is one stored attack step: the state it reaches and the exploit used.
type outgoing struct {
	target  string
	exploit string
}

// AttackGraph maintains the directed labeled adjacency structure of states
// (nodes) and exploits (edges). States are materialized implicitly the first
// time they appear as a source or target of a step; there is no separate
// node-creation operation.
//
// The graph is append-only. It is safe to run any number of searches
// concurrently over a fully built graph, but mutation is not synchronized
// with reads: build the graph completely before searching.
type AttackGraph struct {
	adjacency map[string][]outgoing // source -> steps in insertion order
	nodes     map[string]bool       // every state seen as source or target
	order     []string              // states in first-seen order

	// Deduplicated mirror for analysis passes that work over graph.Directed.
	// Parallel steps collapse to one edge; labels keeps the most recently
	// inserted exploit per ordered pair.
	mirror *simple.DirectedGraph
	ids    map[string]int64
	byID   map[int64]string
	labels map[[2]string]string
	nextID int64
}

// New creates an empty attack graph.
func New() *AttackGraph {
	return &AttackGraph{
		adjacency: make(map[string][]outgoing),
		nodes:     make(map[string]bool),
		mirror:    simple.NewDirectedGraph(),
		ids:       make(map[string]int64),
		byID:      make(map[int64]string),
		labels:    make(map[[2]string]string),
	}
}

// AddStep records an attack step from source to target using the named
// exploit. Duplicate steps between the same pair are stored as distinct
// entries; parallel steps with different exploits are likewise kept.
// Empty identifiers are rejected.
func (g *AttackGraph) AddStep(source, target, exploit string) error {
	if source == "" {
		return fmt.Errorf("attack step: empty source state")
	}
	if target == "" {
		return fmt.Errorf("attack step %q -> %q: empty target state", source, target)
	}
	if exploit == "" {
		return fmt.Errorf("attack step %q -> %q: empty exploit name", source, target)
	}

	g.materialize(source)
	g.materialize(target)

	if _, ok := g.adjacency[source]; !ok {
		g.adjacency[source] = make([]outgoing, 0, 1)
	}
	g.adjacency[source] = append(g.adjacency[source], outgoing{target: target, exploit: exploit})

	// Self-loops cannot be represented in the simple mirror; the adjacency
	// list above still carries them for search.
	if source != target && !g.mirror.HasEdgeFromTo(g.ids[source], g.ids[target]) {
		g.mirror.SetEdge(g.mirror.NewEdge(g.mirror.Node(g.ids[source]), g.mirror.Node(g.ids[target])))
	}
	g.labels[[2]string{source, target}] = exploit

	return nil
}

// materialize ensures the state exists in the node set and the mirror.
func (g *AttackGraph) materialize(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
	g.ids[id] = g.nextID
	g.byID[g.nextID] = id
	g.mirror.AddNode(simple.Node(g.nextID))
	g.nextID++
}

// HasNode reports whether the state has appeared in at least one inserted
// step, as source or target.
func (g *AttackGraph) HasNode(id string) bool {
	return g.nodes[id]
}

// Outgoing returns the steps leaving the given state in insertion order.
// The result is empty (not an error) for states with no outgoing steps and
// for unknown states. The returned slice is owned by the graph; callers
// must not modify it.
func (g *AttackGraph) Outgoing(source string) []model.AttackStep {
	stored := g.adjacency[source]
	if len(stored) == 0 {
		return nil
	}
	steps := make([]model.AttackStep, len(stored))
	for i, o := range stored {
		steps[i] = model.AttackStep{Source: source, Target: o.target, Exploit: o.exploit}
	}
	return steps
}

// Nodes returns every state in first-seen order.
func (g *AttackGraph) Nodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// Steps returns every stored attack step, grouped by source in first-seen
// order and per source in insertion order.
func (g *AttackGraph) Steps() []model.AttackStep {
	var steps []model.AttackStep
	for _, source := range g.order {
		for _, o := range g.adjacency[source] {
			steps = append(steps, model.AttackStep{Source: source, Target: o.target, Exploit: o.exploit})
		}
	}
	return steps
}

// NumNodes returns the number of distinct states.
func (g *AttackGraph) NumNodes() int {
	return len(g.nodes)
}

// NumSteps returns the number of stored attack steps, duplicates included.
func (g *AttackGraph) NumSteps() int {
	n := 0
	for _, steps := range g.adjacency {
		n += len(steps)
	}
	return n
}

// Label returns the exploit recorded for the ordered pair in the mirror.
// When parallel steps connect the pair, this is the most recently inserted
// exploit, matching what a visualization edge-attribute store would retain.
func (g *AttackGraph) Label(source, target string) (string, bool) {
	label, ok := g.labels[[2]string{source, target}]
	return label, ok
}

// Directed returns the deduplicated gonum view of the graph for analysis
// passes. Self-loops are not represented in this view.
func (g *AttackGraph) Directed() *simple.DirectedGraph {
	return g.mirror
}

// NodeID returns the mirror's numeric ID for a state.
func (g *AttackGraph) NodeID(id string) (int64, bool) {
	gid, ok := g.ids[id]
	return gid, ok
}

// NodeByID returns the state for a mirror ID.
func (g *AttackGraph) NodeByID(gid int64) (string, bool) {
	id, ok := g.byID[gid]
	return id, ok
}
