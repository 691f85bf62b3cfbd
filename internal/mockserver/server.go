// Package mockserver is a stand-in Personas server for offline demos
// and tests. It answers the same endpoints as the real server with
// canned personas and a naive keyword-overlap score.
package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/personactl/personactl/internal/jsonrpc"
	"github.com/personactl/personactl/internal/personas"
)

const version = "0.1.0-mock"

type Server struct {
	router   *mux.Router
	personas []personas.Persona
}

func New() *Server {
	s := &Server{
		personas: builtinPersonas(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/mcp", s.handleMCP).Methods("POST")
	r.HandleFunc("/api/personas", s.handleListPersonas).Methods("GET")
	r.HandleFunc("/api/personas/{id}", s.handleGetPersona).Methods("GET")
	s.router = r

	return s
}

// Handler exposes the routes for mounting on an http.Server or an
// httptest.Server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

func (s *Server) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.personas)
}

func (s *Server) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, p := range s.personas {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	http.Error(w, fmt.Sprintf("persona %q not found", id), http.StatusNotFound)
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	var req jsonrpc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error unmarshalling request body", http.StatusBadRequest)
		return
	}

	if req.Method != jsonrpc.MethodToolsCall {
		s.writeError(w, req.ID, -32601, fmt.Sprintf("method not found: %s", req.Method))
		return
	}

	switch req.Params.Name {
	case personas.ToolRecommendPersona:
		s.recommend(w, req)
	case personas.ToolExplainFit:
		s.explainFit(w, req)
	case personas.ToolComparePersonas:
		s.compare(w, req)
	case personas.ToolStats:
		s.stats(w, req)
	default:
		s.writeError(w, req.ID, -32602, fmt.Sprintf("unknown tool: %s", req.Params.Name))
	}
}

type scored struct {
	PersonaID   string   `json:"personaId"`
	Score       int      `json:"score"`
	Reasoning   string   `json:"reasoning"`
	Strengths   []string `json:"strengths"`
	Confidence  int      `json:"confidence"`
	Limitations []string `json:"limitations,omitempty"`
}

func (s *Server) recommend(w http.ResponseWriter, req jsonrpc.Request) {
	keywords := stringSlice(req.Params.Arguments["keywords"])

	var recs []scored
	for _, p := range s.personas {
		recs = append(recs, s.scoreAgainst(p, keywords))
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > 3 {
		recs = recs[:3]
	}

	s.writeResult(w, req.ID, map[string]interface{}{
		"data": map[string]interface{}{"recommendations": recs},
	})
}

func (s *Server) explainFit(w http.ResponseWriter, req jsonrpc.Request) {
	id, _ := req.Params.Arguments["personaId"].(string)

	var persona *personas.Persona
	for i := range s.personas {
		if s.personas[i].ID == id {
			persona = &s.personas[i]
			break
		}
	}
	if persona == nil {
		s.writeError(w, req.ID, -32602, fmt.Sprintf("unknown persona: %s", id))
		return
	}

	fit := s.scoreAgainst(*persona, stringSlice(req.Params.Arguments["keywords"]))
	s.writeResult(w, req.ID, map[string]interface{}{
		"data": map[string]interface{}{
			"persona":     persona,
			"score":       fit.Score,
			"confidence":  fit.Confidence,
			"reasoning":   fit.Reasoning,
			"strengths":   fit.Strengths,
			"limitations": fit.Limitations,
		},
	})
}

func (s *Server) compare(w http.ResponseWriter, req jsonrpc.Request) {
	ids := stringSlice(req.Params.Arguments["personaIds"])
	if len(ids) == 0 {
		s.writeError(w, req.ID, -32602, "personaIds is required")
		return
	}
	keywords := stringSlice(req.Params.Arguments["keywords"])

	var comps []scored
	for _, id := range ids {
		for _, p := range s.personas {
			if p.ID == id {
				comps = append(comps, s.scoreAgainst(p, keywords))
			}
		}
	}

	s.writeResult(w, req.ID, map[string]interface{}{
		"data": map[string]interface{}{"comparisons": comps},
	})
}

func (s *Server) stats(w http.ResponseWriter, req jsonrpc.Request) {
	roleSet := map[string]bool{}
	for _, p := range s.personas {
		roleSet[p.Role] = true
	}
	roles := make([]string, 0, len(roleSet))
	for role := range roleSet {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	s.writeResult(w, req.ID, map[string]interface{}{
		"data": map[string]interface{}{
			"totalPersonas":  len(s.personas),
			"availableRoles": roles,
			"scoringWeights": map[string]float64{
				"keywordMatch": 0.6,
				"roleFit":      0.4,
			},
			"systemInfo": map[string]interface{}{
				"version":  version,
				"features": []string{"recommendations", "comparisons", "fit explanations"},
			},
		},
	})
}

// scoreAgainst is a deliberately simple stand-in for the real scoring
// algorithm: expertise/keyword overlap, nothing more.
func (s *Server) scoreAgainst(p personas.Persona, keywords []string) scored {
	matches := 0
	var hits []string
	for _, kw := range keywords {
		for _, exp := range p.Expertise {
			if strings.EqualFold(kw, exp) {
				matches++
				hits = append(hits, exp)
			}
		}
	}

	score := 40 + 15*matches
	if score > 95 {
		score = 95
	}

	reasoning := fmt.Sprintf("%s covers %d of %d task keywords", p.Name, matches, len(keywords))
	strengths := hits
	if len(strengths) == 0 {
		strengths = []string{p.Role}
	}

	out := scored{
		PersonaID:  p.ID,
		Score:      score,
		Reasoning:  reasoning,
		Strengths:  strengths,
		Confidence: 50 + 10*matches,
	}
	if matches == 0 {
		out.Limitations = []string{"no direct expertise overlap with the task"}
	}
	return out
}

func (s *Server) writeResult(w http.ResponseWriter, id int64, result map[string]interface{}) {
	writeJSON(w, http.StatusOK, jsonrpc.Response{
		JSONRPC: jsonrpc.Version,
		ID:      id,
		Result:  result,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id int64, code int, message string) {
	writeJSON(w, http.StatusOK, jsonrpc.Response{
		JSONRPC: jsonrpc.Version,
		ID:      id,
		Error:   &jsonrpc.ErrorObject{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// stringSlice coerces a decoded JSON value into a string slice. JSON
// arrays arrive as []interface{}; handlers called in-process may pass
// []string directly.
func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func builtinPersonas() []personas.Persona {
	return []personas.Persona{
		{
			ID: "architect", Name: "Architect", Role: "architecture",
			Description: "Designs system structure and component boundaries",
			Approach:    "Start from constraints, work toward structure",
			Expertise:   []string{"microservices", "scalability", "architecture", "refactoring"},
		},
		{
			ID: "developer", Name: "Developer", Role: "implementation",
			Description: "Turns designs into working, tested code",
			Approach:    "Small increments, tests first",
			Expertise:   []string{"api", "websocket", "chat", "real-time"},
		},
		{
			ID: "optimizer", Name: "Optimizer", Role: "performance",
			Description: "Finds and removes performance bottlenecks",
			Approach:    "Measure before changing anything",
			Expertise:   []string{"performance", "optimization", "latency", "profiling"},
		},
		{
			ID: "performance-analyst", Name: "Performance Analyst", Role: "performance",
			Description: "Quantifies system behaviour under load",
			Expertise:   []string{"performance", "benchmarking", "latency", "capacity"},
		},
		{
			ID: "security-analyst", Name: "Security Analyst", Role: "security",
			Description: "Reviews designs and code for security weaknesses",
			Approach:    "Assume breach, verify everything",
			Expertise:   []string{"security", "threat-modelling", "authentication", "encryption", "auditing", "compliance"},
		},
		{
			ID: "database-admin", Name: "Database Admin", Role: "operations",
			Description: "Keeps production data stores healthy",
			Expertise:   []string{"database", "sql", "optimization", "production"},
		},
		{
			ID: "debugger", Name: "Debugger", Role: "analysis",
			Description: "Tracks defects to their root cause",
			Approach:    "Reproduce, bisect, fix",
			Expertise:   []string{"debugging", "production", "logging", "tracing"},
		},
	}
}
