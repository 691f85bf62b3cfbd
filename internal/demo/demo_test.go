package demo

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/personactl/personactl/internal/mockserver"
	"github.com/personactl/personactl/internal/personas"
)

func TestRun_FullWalkthrough(t *testing.T) {
	srv := httptest.NewServer(mockserver.New().Handler())
	defer srv.Close()

	client := personas.NewClient(srv.URL+"/mcp", srv.URL+"/api", srv.URL+"/health")

	var out bytes.Buffer
	if err := NewRunner(client, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Server is running.",
		"Recommended personas:",
		"Persona: Architect",
		"Comparison (sorted by score):",
		"security-analyst",
		"Scoring algorithm weights:",
		"Primary persona:",
		"Walkthrough complete.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(text, "Error:") {
		t.Errorf("walkthrough against healthy server printed an error:\n%s", text)
	}
}

func TestRun_LivenessFailureHaltsBeforeAnyToolCall(t *testing.T) {
	toolCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mcp" {
			toolCalls++
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := personas.NewClient(srv.URL+"/mcp", srv.URL+"/api", srv.URL+"/health")

	var out bytes.Buffer
	err := NewRunner(client, &out).Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail when the liveness probe fails")
	}
	if toolCalls != 0 {
		t.Errorf("expected no tool calls after failed preflight, got %d", toolCalls)
	}
}

func TestRun_ToolFailureIsIsolated(t *testing.T) {
	// Healthy REST surface, broken MCP endpoint: the run must
	// complete and report each tool failure inline.
	mock := mockserver.New().Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mcp" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mock.ServeHTTP(w, r)
	}))
	defer srv.Close()

	client := personas.NewClient(srv.URL+"/mcp", srv.URL+"/api", srv.URL+"/health")

	var out bytes.Buffer
	if err := NewRunner(client, &out).Run(context.Background()); err != nil {
		t.Fatalf("tool failures must not abort the run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Error:") {
		t.Error("expected inline tool errors in output")
	}
	// The REST example must still have succeeded.
	if !strings.Contains(text, "security-analyst") {
		t.Error("REST browsing should survive a broken MCP endpoint")
	}
	if !strings.Contains(text, "Walkthrough complete.") {
		t.Error("run should finish despite tool failures")
	}
}
