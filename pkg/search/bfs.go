// Package search finds the attack path with the fewest exploit steps
// between two states of an attack graph.
package search

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/model"
)

var (
	// ErrUnknownStartNode is returned when the start state has never
	// appeared in any inserted attack step. Detected before the search
	// begins; the graph itself remains valid.
	ErrUnknownStartNode = errors.New("unknown start node")

	// ErrNoPathFound is returned when every state reachable from start
	// has been explored without encountering the target. This is a normal
	// negative outcome, not a failure of the graph.
	ErrNoPathFound = errors.New("no attack path found")
)

// FindShortestPath runs a breadth-first search from start to target and
// returns the path with the minimum number of exploit steps. Among equally
// short paths the result is deterministic: states are expanded in strict
// FIFO order and their outgoing steps in insertion order, with states
// marked visited at enqueue time, so the path through the earliest-inserted
// step from the earliest-reached predecessor wins.
//
// The search never mutates the graph and is safe to repeat concurrently
// over a fully built graph.
func FindShortestPath(g *graph.AttackGraph, start, target string) (*model.AttackPath, error) {
	if !g.HasNode(start) {
		return nil, fmt.Errorf("start %q: %w", start, ErrUnknownStartNode)
	}

	// target is deliberately not pre-validated: an unknown target behaves
	// exactly like an unreachable one.

	queue := list.New()
	queue.PushBack(start)

	visited := map[string]bool{start: true}
	parent := make(map[string]string)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)

		if current == target {
			return reconstruct(g, parent, start, target), nil
		}

		for _, step := range g.Outgoing(current) {
			if visited[step.Target] {
				continue
			}
			visited[step.Target] = true
			parent[step.Target] = current
			queue.PushBack(step.Target)
		}
	}

	return nil, fmt.Errorf("%q -> %q: %w", start, target, ErrNoPathFound)
}

// reconstruct walks the parent map back from target to start and attaches
// the exploit labels for each hop.
func reconstruct(g *graph.AttackGraph, parent map[string]string, start, target string) *model.AttackPath {
	nodes := []string{target}
	for node := target; node != start; {
		node = parent[node]
		nodes = append(nodes, node)
	}

	// Reverse into start -> target order.
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	return &model.AttackPath{
		Nodes: nodes,
		Steps: StepsAlong(g, nodes),
	}
}

// StepsAlong derives the exploit used between each consecutive pair of
// states on a path. When parallel steps connect the same ordered pair, the
// most recently inserted exploit is reported.
func StepsAlong(g *graph.AttackGraph, nodes []string) []model.AttackStep {
	if len(nodes) < 2 {
		return nil
	}
	steps := make([]model.AttackStep, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		exploit, _ := g.Label(nodes[i], nodes[i+1])
		steps = append(steps, model.AttackStep{
			Source:  nodes[i],
			Target:  nodes[i+1],
			Exploit: exploit,
		})
	}
	return steps
}
