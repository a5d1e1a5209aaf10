package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ritzau/attackgraph/pkg/analysis"
	"github.com/ritzau/attackgraph/pkg/cycles"
	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/logging"
	"github.com/ritzau/attackgraph/pkg/model"
	"github.com/ritzau/attackgraph/pkg/pubsub"
	"github.com/ritzau/attackgraph/pkg/search"
	"github.com/ritzau/attackgraph/pkg/topology"
)

//go:embed static/*
var staticFiles embed.FS

// GraphNode represents a state for the UI
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GraphEdge represents an attack step for the UI
type GraphEdge struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Exploit string `json:"exploit"`
}

// GraphData holds the attack graph for visualization
type GraphData struct {
	Scenario string      `json:"scenario"`
	Entry    string      `json:"entry,omitempty"`
	Asset    string      `json:"asset,omitempty"`
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
}

// PathResponse is the result of a path query
type PathResponse struct {
	Found bool              `json:"found"`
	Path  *model.AttackPath `json:"path,omitempty"`
}

// errorResponse is the tagged failure shape for API errors
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"` // "unknown_start", "no_path", "bad_request"
}

// Server serves the attack graph API and UI. The served graph can be
// swapped atomically when the topology file changes.
type Server struct {
	router    *mux.Router
	publisher *pubsub.SSEPublisher

	mu    sync.RWMutex
	doc   *topology.Document
	graph *graph.AttackGraph
}

// NewServer creates a new web server
func NewServer() *Server {
	publisher := pubsub.NewSSEPublisher()

	// topology_status: current state only for new subscribers
	publisher.ConfigureTopic("topology_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// attack_graph: current graph summary only
	publisher.ConfigureTopic("attack_graph", pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// SetTopology swaps the served topology and graph
func (s *Server) SetTopology(doc *topology.Document, g *graph.AttackGraph) {
	s.mu.Lock()
	s.doc = doc
	s.graph = g
	s.mu.Unlock()
}

// Snapshot returns the currently served topology and graph
func (s *Server) Snapshot() (*topology.Document, *graph.AttackGraph) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.graph
}

// PublishTopologyStatus publishes a topology lifecycle event
func (s *Server) PublishTopologyStatus(state, message, source string) error {
	return s.publisher.Publish("topology_status", state, pubsub.TopologyStatus{
		State:   state,
		Message: message,
		Source:  source,
	})
}

// PublishAttackGraph publishes a graph summary event
func (s *Server) PublishAttackGraph(eventType string, complete bool) error {
	_, g := s.Snapshot()

	data := pubsub.AttackGraphData{Complete: complete}
	if g != nil {
		data.StatesCount = g.NumNodes()
		data.StepsCount = g.NumSteps()
	}
	return s.publisher.Publish("attack_graph", eventType, data)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/topology_status", s.handleSubscribe("topology_status")).Methods("GET")
	s.router.HandleFunc("/api/subscribe/attack_graph", s.handleSubscribe("attack_graph")).Methods("GET")

	// API routes
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/path", s.handlePath).Methods("GET")
	s.router.HandleFunc("/api/exposure", s.handleExposure).Methods("GET")
	s.router.HandleFunc("/api/cycles", s.handleCycles).Methods("GET")

	s.router.Use(logging.RequestIDMiddleware)

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("embedded static files missing", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// handleSubscribe streams a pub/sub topic as Server-Sent Events
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// Initial comment establishes the connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.ErrorContext(r.Context(), "error writing SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	doc, g := s.Snapshot()
	if g == nil {
		json.NewEncoder(w).Encode(&GraphData{Nodes: []GraphNode{}, Edges: []GraphEdge{}})
		return
	}

	data := &GraphData{
		Nodes: make([]GraphNode, 0, g.NumNodes()),
		Edges: make([]GraphEdge, 0, g.NumSteps()),
	}
	if doc != nil {
		data.Scenario = doc.Name
		data.Entry = doc.Entry
		data.Asset = doc.Asset
	}
	for _, node := range g.Nodes() {
		data.Nodes = append(data.Nodes, GraphNode{ID: node, Label: node})
	}
	for _, step := range g.Steps() {
		data.Edges = append(data.Edges, GraphEdge{
			Source:  step.Source,
			Target:  step.Target,
			Exploit: step.Exploit,
		})
	}

	json.NewEncoder(w).Encode(data)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	doc, g := s.Snapshot()
	if g == nil {
		http.Error(w, "Topology not loaded", http.StatusServiceUnavailable)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	// Fall back to the topology's declared entry/asset
	if doc != nil {
		if from == "" {
			from = doc.Entry
		}
		if to == "" {
			to = doc.Asset
		}
	}
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "from and to query parameters are required")
		return
	}

	path, err := search.FindShortestPath(g, from, to)
	switch {
	case errors.Is(err, search.ErrUnknownStartNode):
		writeError(w, http.StatusBadRequest, "unknown_start", err.Error())
	case errors.Is(err, search.ErrNoPathFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(&PathResponse{Found: false})
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		json.NewEncoder(w).Encode(&PathResponse{Found: true, Path: path})
	}
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	doc, g := s.Snapshot()
	if g == nil {
		http.Error(w, "Topology not loaded", http.StatusServiceUnavailable)
		return
	}

	entry := r.URL.Query().Get("entry")
	if entry == "" && doc != nil {
		entry = doc.Entry
	}
	if entry == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "entry query parameter is required")
		return
	}

	report, err := analysis.Exposure(g, entry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_start", err.Error())
		return
	}
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_, g := s.Snapshot()
	if g == nil {
		http.Error(w, "Topology not loaded", http.StatusServiceUnavailable)
		return
	}

	loops := cycles.FindAttackLoops(g)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(loops),
		"loops": loops,
	})
}

func writeError(w http.ResponseWriter, status int, reason, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&errorResponse{Error: message, Reason: reason})
}

// Router exposes the handler for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the web server on the given port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
