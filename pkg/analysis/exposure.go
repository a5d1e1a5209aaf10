// Package analysis derives summary views of an attack graph that the
// report and web layers present alongside the shortest path.
package analysis

import (
	"fmt"
	"sort"

	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/search"
)

// StateExposure is one state's proximity to the entry point.
type StateExposure struct {
	State    string `json:"state"`
	Distance int    `json:"distance"` // minimum exploit steps from the entry
}

// ExposureReport ranks every state by hop distance from an entry state.
// Unreachable states are listed separately instead of carrying a sentinel
// distance.
type ExposureReport struct {
	Entry       string          `json:"entry"`
	Reachable   []StateExposure `json:"reachable"`
	Unreachable []string        `json:"unreachable"`
}

// Exposure computes the minimum number of exploit steps needed to reach
// each state from the entry point, by level-order BFS over the adjacency.
// Reachable states are sorted by distance, then by identifier for a stable
// report. Fails fast if the entry state was never inserted.
func Exposure(g *graph.AttackGraph, entry string) (*ExposureReport, error) {
	if !g.HasNode(entry) {
		return nil, fmt.Errorf("entry %q: %w", entry, search.ErrUnknownStartNode)
	}

	distances := map[string]int{entry: 0}
	frontier := []string{entry}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		for _, step := range g.Outgoing(current) {
			if _, seen := distances[step.Target]; seen {
				continue
			}
			distances[step.Target] = distances[current] + 1
			frontier = append(frontier, step.Target)
		}
	}

	report := &ExposureReport{Entry: entry}
	for _, node := range g.Nodes() {
		if d, ok := distances[node]; ok {
			report.Reachable = append(report.Reachable, StateExposure{State: node, Distance: d})
		} else {
			report.Unreachable = append(report.Unreachable, node)
		}
	}

	sort.Slice(report.Reachable, func(i, j int) bool {
		a, b := report.Reachable[i], report.Reachable[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.State < b.State
	})
	sort.Strings(report.Unreachable)

	return report, nil
}
