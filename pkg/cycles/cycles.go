// Package cycles detects attack loops: groups of states that can each be
// reached from the others. A loop in a topology usually means the model
// re-grants access the attacker already holds, which is worth flagging.
package cycles

import (
	gograph "gonum.org/v1/gonum/graph"

	"github.com/ritzau/attackgraph/pkg/graph"
)

// FindAttackLoops returns every group of two or more states that form a
// cycle in the attack graph, as state identifiers. Single-state self-loops
// are not reported; the search already treats them as harmless.
func FindAttackLoops(g *graph.AttackGraph) [][]string {
	sccs := newTarjan(g.Directed()).find()

	loops := make([][]string, 0, len(sccs))
	for _, scc := range sccs {
		loop := make([]string, 0, len(scc))
		for _, id := range scc {
			if state, ok := g.NodeByID(id); ok {
				loop = append(loop, state)
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

// tarjan finds strongly connected components using Tarjan's algorithm.
type tarjan struct {
	graph   gograph.Directed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	sccs    [][]int64
}

func newTarjan(g gograph.Directed) *tarjan {
	return &tarjan{
		graph:   g,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}
}

// find returns all strongly connected components with more than one node.
func (t *tarjan) find() [][]int64 {
	nodes := t.graph.Nodes()
	for nodes.Next() {
		node := nodes.Node()
		if _, visited := t.indices[node.ID()]; !visited {
			t.strongConnect(node.ID())
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(nodeID int64) {
	t.indices[nodeID] = t.index
	t.lowLink[nodeID] = t.index
	t.index++

	t.stack = append(t.stack, nodeID)
	t.onStack[nodeID] = true

	successors := t.graph.From(nodeID)
	for successors.Next() {
		successorID := successors.Node().ID()

		if _, visited := t.indices[successorID]; !visited {
			t.strongConnect(successorID)
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.lowLink[successorID])
		} else if t.onStack[successorID] {
			t.lowLink[nodeID] = min(t.lowLink[nodeID], t.indices[successorID])
		}
	}

	// Root of an SCC: pop the stack down to this node.
	if t.lowLink[nodeID] == t.indices[nodeID] {
		var scc []int64
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == nodeID {
				break
			}
		}
		// Single nodes are not loops.
		if len(scc) > 1 {
			t.sccs = append(t.sccs, scc)
		}
	}
}
