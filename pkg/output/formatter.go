package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/ritzau/attackgraph/pkg/analysis"
	"github.com/ritzau/attackgraph/pkg/model"
)

// PrintPathReport prints the found attack path with per-step exploit names
func PrintPathReport(scenario string, path *model.AttackPath) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Attack Graph Analyzer - Shortest Path Report")
	bold.Println("============================================")
	fmt.Printf("Scenario: %s\n", scenario)
	fmt.Printf("Entry point: %s\n", path.Start())
	fmt.Printf("Target asset: %s\n", path.Target())
	red.Printf("Shortest attack path: %d exploit step(s)\n", path.Length())
	fmt.Println()

	for i, step := range path.Steps {
		yellow.Printf("  %d. %s", i+1, step.Source)
		fmt.Print(" --(")
		cyan.Printf("%s", step.Exploit)
		fmt.Print(")--> ")
		yellow.Printf("%s\n", step.Target)
	}
	if path.Length() == 0 {
		yellow.Printf("  Entry point and target are the same state: %s\n", path.Start())
	}
	fmt.Println()
}

// PrintNoPath prints the negative search outcome
func PrintNoPath(start, target string) {
	green := color.New(color.FgGreen)
	green.Printf("No attack path from %s to %s - the asset is not reachable from this entry point.\n", start, target)
}

// PrintUnknownStart prints the failed precondition for a search
func PrintUnknownStart(start string) {
	red := color.New(color.FgRed)
	red.Printf("Start state %q does not exist in the topology.\n", start)
}

// PrintExposure prints the hop-distance ranking of states from the entry point
func PrintExposure(report *analysis.ExposureReport) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	bold.Printf("Exposure from %s:\n", report.Entry)
	for _, e := range report.Reachable {
		switch {
		case e.Distance == 0:
			fmt.Printf("  %-20s entry point\n", e.State)
		case e.Distance == 1:
			red.Printf("  %-20s %d step\n", e.State, e.Distance)
		default:
			yellow.Printf("  %-20s %d steps\n", e.State, e.Distance)
		}
	}
	for _, state := range report.Unreachable {
		green.Printf("  %-20s not reachable\n", state)
	}
	fmt.Println()
}

// PrintLoops prints detected attack loops
func PrintLoops(loops [][]string) {
	if len(loops) == 0 {
		return
	}
	yellow := color.New(color.FgYellow)
	yellow.Printf("Topology contains %d attack loop(s):\n", len(loops))
	for _, loop := range loops {
		fmt.Print("  ")
		for i, state := range loop {
			if i > 0 {
				fmt.Print(" <-> ")
			}
			fmt.Print(state)
		}
		fmt.Println()
	}
	fmt.Println()
}
