package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/attackgraph/pkg/analysis"
	"github.com/ritzau/attackgraph/pkg/config"
	"github.com/ritzau/attackgraph/pkg/cycles"
	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/logging"
	"github.com/ritzau/attackgraph/pkg/output"
	"github.com/ritzau/attackgraph/pkg/render"
	"github.com/ritzau/attackgraph/pkg/search"
	"github.com/ritzau/attackgraph/pkg/topology"
	"github.com/ritzau/attackgraph/pkg/watcher"
	"github.com/ritzau/attackgraph/pkg/web"
)

const (
	watchQuietPeriod = 500 * time.Millisecond
	watchMaxWait     = 5 * time.Second
)

func main() {
	flags := pflag.NewFlagSet("analyzer", pflag.ExitOnError)
	flags.String("topology", "", "Path to a topology YAML file (default: built-in sample scenario)")
	flags.String("entry", "", "Start state for the search (default: topology's entry)")
	flags.String("asset", "", "Target asset for the search (default: topology's asset)")
	flags.Bool("web", false, "Start web server instead of printing to console")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Reload the topology file on change (only used with --web)")
	flags.String("dot", "", "Write a Graphviz file with the found path highlighted")
	flags.String("verbosity", "", "Log level: debug, info, warn, error")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyVerbosity(cfg.Verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	doc, g, err := loadTopology(cfg)
	if err != nil {
		return err
	}

	if cfg.WebMode {
		return serveWeb(ctx, cfg, doc, g)
	}
	return runConsole(cfg, doc, g)
}

// loadTopology loads the configured topology file, or the built-in sample
// when none is configured.
func loadTopology(cfg *config.Config) (*topology.Document, *graph.AttackGraph, error) {
	if cfg.Topology == "" {
		logging.Info("no topology configured, using built-in sample scenario")
		doc, g := topology.Sample()
		return doc, g, nil
	}
	return topology.Load(cfg.Topology)
}

// searchEndpoints resolves the start and target for the search: flags win
// over the topology's declared defaults.
func searchEndpoints(cfg *config.Config, doc *topology.Document) (string, string, error) {
	entry, asset := cfg.Entry, cfg.Asset
	if entry == "" {
		entry = doc.Entry
	}
	if asset == "" {
		asset = doc.Asset
	}
	if entry == "" || asset == "" {
		return "", "", fmt.Errorf("no entry/asset given and topology %q declares none", doc.Name)
	}
	return entry, asset, nil
}

func runConsole(cfg *config.Config, doc *topology.Document, g *graph.AttackGraph) error {
	entry, asset, err := searchEndpoints(cfg, doc)
	if err != nil {
		return err
	}

	if loops := cycles.FindAttackLoops(g); len(loops) > 0 {
		output.PrintLoops(loops)
	}

	path, err := search.FindShortestPath(g, entry, asset)
	switch {
	case errors.Is(err, search.ErrUnknownStartNode):
		output.PrintUnknownStart(entry)
		return err
	case errors.Is(err, search.ErrNoPathFound):
		output.PrintNoPath(entry, asset)
	case err != nil:
		return err
	default:
		output.PrintPathReport(doc.Name, path)
	}

	report, err := analysis.Exposure(g, entry)
	if err != nil {
		return err
	}
	output.PrintExposure(report)

	if cfg.DotOut != "" {
		if err := render.WriteDOTFile(cfg.DotOut, g, path); err != nil {
			return err
		}
		logging.Info("wrote visualization", "path", cfg.DotOut)
	}

	return nil
}

func serveWeb(ctx context.Context, cfg *config.Config, doc *topology.Document, g *graph.AttackGraph) error {
	server := web.NewServer()
	server.SetTopology(doc, g)

	source := cfg.Topology
	if source == "" {
		source = "sample"
	}
	server.PublishTopologyStatus("ready", "Topology loaded", source)
	server.PublishAttackGraph("ready", true)

	if cfg.Watch {
		if cfg.Topology == "" {
			logging.Warn("--watch has no effect with the built-in sample scenario")
		} else {
			if err := startWatching(ctx, cfg.Topology, server); err != nil {
				return err
			}
		}
	}

	logging.Info("serving attack graph",
		"scenario", doc.Name,
		"states", g.NumNodes(),
		"steps", g.NumSteps(),
		"port", cfg.Port,
	)
	return server.Start(cfg.Port)
}

// startWatching reloads the topology file on change and swaps it into the
// server.
func startWatching(ctx context.Context, path string, server *web.Server) error {
	tw, err := watcher.NewTopologyWatcher(path)
	if err != nil {
		return err
	}
	if err := tw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(tw.Events(), watchQuietPeriod, watchMaxWait)
	debouncer.Start(ctx)

	go func() {
		for range debouncer.Output() {
			doc, g, err := topology.Load(path)
			if err != nil {
				logging.Error("topology reload failed, keeping previous graph", "error", err)
				server.PublishTopologyStatus("error", err.Error(), path)
				continue
			}
			server.SetTopology(doc, g)
			server.PublishTopologyStatus("reloaded", "Topology reloaded", path)
			server.PublishAttackGraph("reloaded", true)
		}
	}()

	return nil
}

func applyVerbosity(verbosity string) {
	switch verbosity {
	case "debug":
		logging.SetLevel(slog.LevelDebug)
	case "warn":
		logging.SetLevel(slog.LevelWarn)
	case "error":
		logging.SetLevel(slog.LevelError)
	case "", "info":
		// Default level.
	default:
		logging.Warn("unknown verbosity, using info", "verbosity", verbosity)
	}
}
