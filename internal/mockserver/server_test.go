package mockserver

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/personactl/personactl/internal/personas"
)

func newTestPair(t *testing.T) (*httptest.Server, *personas.Client) {
	t.Helper()
	srv := httptest.NewServer(New().Handler())
	t.Cleanup(srv.Close)
	client := personas.NewClient(srv.URL+"/mcp", srv.URL+"/api", srv.URL+"/health")
	return srv, client
}

func TestHealthAndPersonaEndpoints(t *testing.T) {
	_, client := newTestPair(t)
	ctx := context.Background()

	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	all, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected built-in personas")
	}

	p, err := client.Get(ctx, "security-analyst")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Role != "security" {
		t.Errorf("expected role security, got %q", p.Role)
	}

	_, err = client.Get(ctx, "wizard")
	var transport *personas.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError for unknown persona, got %T: %v", err, err)
	}
	if transport.StatusCode != 404 {
		t.Errorf("expected 404, got %d", transport.StatusCode)
	}
}

func TestRecommendRanksByKeywordOverlap(t *testing.T) {
	_, client := newTestPair(t)

	result, err := client.CallTool(context.Background(), personas.ToolRecommendPersona, map[string]interface{}{
		"title":    "Optimize API response times",
		"keywords": []string{"performance", "optimization", "latency"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}

	data, _ := result["data"].(map[string]interface{})
	recs, _ := data["recommendations"].([]interface{})
	if len(recs) != 3 {
		t.Fatalf("expected top 3 recommendations, got %d", len(recs))
	}

	top, _ := recs[0].(map[string]interface{})
	if top["personaId"] != "optimizer" {
		t.Errorf("expected optimizer to rank first, got %v", top["personaId"])
	}
	prev := 101.0
	for _, r := range recs {
		m, _ := r.(map[string]interface{})
		score, _ := m["score"].(float64)
		if score > prev {
			t.Errorf("recommendations not sorted by score: %v", recs)
		}
		prev = score
	}
}

func TestExplainFitUnknownPersonaIsRemoteError(t *testing.T) {
	_, client := newTestPair(t)

	_, err := client.CallTool(context.Background(), personas.ToolExplainFit, map[string]interface{}{
		"personaId": "wizard",
	})

	var remote *personas.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
	if remote.Message != `unknown persona: wizard` {
		t.Errorf("unexpected message: %q", remote.Message)
	}
}

func TestCompareReturnsOnlyRequestedPersonas(t *testing.T) {
	_, client := newTestPair(t)

	result, err := client.CallTool(context.Background(), personas.ToolComparePersonas, map[string]interface{}{
		"personaIds": []string{"developer", "optimizer"},
		"keywords":   []string{"performance"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}

	data, _ := result["data"].(map[string]interface{})
	comps, _ := data["comparisons"].([]interface{})
	if len(comps) != 2 {
		t.Fatalf("expected 2 comparisons, got %d", len(comps))
	}
}

func TestStatsShape(t *testing.T) {
	_, client := newTestPair(t)

	result, err := client.CallTool(context.Background(), personas.ToolStats, map[string]interface{}{})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}

	data, _ := result["data"].(map[string]interface{})
	total, _ := data["totalPersonas"].(float64)
	if int(total) != len(builtinPersonas()) {
		t.Errorf("totalPersonas = %v, want %d", data["totalPersonas"], len(builtinPersonas()))
	}
	if _, ok := data["scoringWeights"].(map[string]interface{}); !ok {
		t.Errorf("missing scoringWeights: %v", data)
	}
}

func TestUnknownToolIsRemoteError(t *testing.T) {
	_, client := newTestPair(t)

	_, err := client.CallTool(context.Background(), "drop-tables", nil)
	var remote *personas.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
}
