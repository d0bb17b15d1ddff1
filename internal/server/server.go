package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/sim"
	"github.com/zeehio/sifra/pkg/validation"
)

// Server exposes one finished simulation run over HTTP for downstream
// plotting and report tooling. Results are computed before the server
// starts; every handler reads immutable data.
type Server struct {
	port   int
	fac    *model.Facility
	report *validation.Report
	result *sim.Result
}

// New creates a server around one simulation result.
func New(port int, fac *model.Facility, report *validation.Report, result *sim.Result) *Server {
	return &Server{
		port:   port,
		fac:    fac,
		report: report,
		result: result,
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /api/model", s.handleModel)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/restoration", s.handleRestoration)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("sifra server starting on http://localhost%s", addr)
	log.Printf("Run: %s (%s)", s.result.RunID, s.fac.Name)

	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>sifra</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>sifra</h1>
<p>Run %s for facility %s. Results at <code>/api/results</code>.</p>
</div>
</body></html>`, s.result.RunID, s.fac.Name)
}

func (s *Server) handleResults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.result)
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"name":  s.fac.Name,
		"nodes": s.fac.Nodes,
		"edges": s.fac.Edges,
	})
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.report)
}

// handleRestoration strips the results down to restoration statistics,
// the view the restoration-model fitting tooling consumes.
func (s *Server) handleRestoration(w http.ResponseWriter, _ *http.Request) {
	type block struct {
		Intensity   float64                `json:"intensity"`
		Restoration []sim.RestorationStats `json:"restoration"`
	}
	blocks := make([]block, 0, len(s.result.Intensities))
	for _, ir := range s.result.Intensities {
		blocks = append(blocks, block{Intensity: ir.Intensity, Restoration: ir.Restoration})
	}
	writeJSON(w, map[string]any{
		"run_id":      s.result.RunID,
		"intensities": blocks,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
