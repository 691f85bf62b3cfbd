// Package demo walks a Personas server through its paces: each
// workflow sends one or more requests and prints the server's answer.
// The workflows are independent; a failure in one is printed and the
// run moves on to the next.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/personactl/personactl/internal/personas"
)

type Runner struct {
	client *personas.Client
	out    io.Writer
}

func NewRunner(client *personas.Client, out io.Writer) *Runner {
	return &Runner{client: client, out: out}
}

// Run executes the full walkthrough. The preflight liveness check is
// fatal: if it fails, no tool is ever invoked and the error is
// returned. Every later failure is printed and isolated.
func (r *Runner) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Personas MCP Server - client walkthrough")
	fmt.Fprintln(r.out, strings.Repeat("=", 60))

	fmt.Fprintln(r.out, "\nTesting connection...")
	if err := r.client.Health(ctx); err != nil {
		return fmt.Errorf("server is not reachable: %w", err)
	}
	fmt.Fprintln(r.out, "Server is running.")

	steps := []func(context.Context){
		r.Recommendations,
		r.ExplainFit,
		r.Compare,
		r.BrowseREST,
		r.Stats,
		r.Workflow,
	}
	for _, step := range steps {
		step(ctx)
	}

	fmt.Fprintln(r.out, "\nWalkthrough complete.")
	return nil
}

type recommendation struct {
	PersonaID   string  `mapstructure:"personaId"`
	Score       float64 `mapstructure:"score"`
	Reasoning   string  `mapstructure:"reasoning"`
	Strengths   []string
	Confidence  float64
	Limitations []string
}

type explanation struct {
	Persona     personas.Persona `mapstructure:"persona"`
	Score       float64
	Confidence  float64
	Reasoning   string
	Strengths   []string
	Limitations []string
}

type statistics struct {
	TotalPersonas  int                `mapstructure:"totalPersonas"`
	AvailableRoles []string           `mapstructure:"availableRoles"`
	ScoringWeights map[string]float64 `mapstructure:"scoringWeights"`
	SystemInfo     struct {
		Version  string
		Features []string
	} `mapstructure:"systemInfo"`
}

// Recommendations asks the server which personas fit a sample task.
func (r *Runner) Recommendations(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 1: persona recommendations")

	task := map[string]interface{}{
		"title":       "Implement real-time chat system",
		"description": "Build a scalable real-time chat system with WebSocket support, message persistence, and user presence indicators",
		"keywords":    []string{"websocket", "real-time", "chat", "scalability"},
		"complexity":  "complex",
		"domain":      "backend",
	}

	result, err := r.client.CallTool(ctx, personas.ToolRecommendPersona, task)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	var data struct {
		Recommendations []recommendation
	}
	if err := decodeData(result, &data); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "Task: %s\n\nRecommended personas:\n", task["title"])
	for i, rec := range data.Recommendations {
		fmt.Fprintf(r.out, "\n%d. %s (score %.0f%%)\n", i+1, rec.PersonaID, rec.Score)
		fmt.Fprintf(r.out, "   Reasoning: %s\n", rec.Reasoning)
		fmt.Fprintf(r.out, "   Strengths: %s\n", strings.Join(rec.Strengths, ", "))
		fmt.Fprintf(r.out, "   Confidence: %.0f%%\n", rec.Confidence)
		if len(rec.Limitations) > 0 {
			fmt.Fprintf(r.out, "   Limitations: %s\n", strings.Join(rec.Limitations, ", "))
		}
	}
}

// ExplainFit asks why one specific persona suits a task.
func (r *Runner) ExplainFit(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 2: explaining persona fit")

	request := map[string]interface{}{
		"personaId":   "architect",
		"title":       "Microservices migration",
		"description": "Migrate monolithic application to microservices architecture",
		"keywords":    []string{"microservices", "migration", "architecture", "refactoring"},
		"complexity":  "expert",
		"domain":      "backend",
	}

	result, err := r.client.CallTool(ctx, personas.ToolExplainFit, request)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	var data explanation
	if err := decodeData(result, &data); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "Persona: %s\n", data.Persona.Name)
	fmt.Fprintf(r.out, "Task: %s\n", request["title"])
	fmt.Fprintf(r.out, "\nScore: %.0f%%\nConfidence: %.0f%%\n", data.Score, data.Confidence)
	fmt.Fprintf(r.out, "\nReasoning: %s\n", data.Reasoning)
	fmt.Fprintln(r.out, "\nStrengths for this task:")
	for _, s := range data.Strengths {
		fmt.Fprintf(r.out, "  - %s\n", s)
	}
	if len(data.Limitations) > 0 {
		fmt.Fprintln(r.out, "\nLimitations:")
		for _, l := range data.Limitations {
			fmt.Fprintf(r.out, "  - %s\n", l)
		}
	}
}

// Compare ranks several personas against the same task.
func (r *Runner) Compare(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 3: comparing personas")

	comparison := map[string]interface{}{
		"personaIds":  []string{"developer", "optimizer", "performance-analyst"},
		"title":       "Optimize API response times",
		"description": "Our REST API has slow response times. Need to identify bottlenecks and implement optimizations",
		"keywords":    []string{"performance", "optimization", "api", "latency"},
		"complexity":  "complex",
	}

	result, err := r.client.CallTool(ctx, personas.ToolComparePersonas, comparison)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	var data struct {
		Comparisons []recommendation
	}
	if err := decodeData(result, &data); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	sort.Slice(data.Comparisons, func(i, j int) bool {
		return data.Comparisons[i].Score > data.Comparisons[j].Score
	})

	fmt.Fprintf(r.out, "Task: %s\n\nComparison (sorted by score):\n", comparison["title"])
	for i, comp := range data.Comparisons {
		fmt.Fprintf(r.out, "\n%d. %s (score %.0f%%)\n", i+1, comp.PersonaID, comp.Score)
		fmt.Fprintf(r.out, "   %s\n", comp.Reasoning)
		if len(comp.Strengths) > 0 {
			fmt.Fprintf(r.out, "   Key strength: %s\n", comp.Strengths[0])
		}
		fmt.Fprintf(r.out, "   Confidence: %.0f%%\n", comp.Confidence)
	}
}

// BrowseREST lists every persona grouped by role, then fetches one
// record in full.
func (r *Runner) BrowseREST(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 4: REST API endpoints")

	fmt.Fprintln(r.out, "Fetching all personas...")
	all, err := r.client.List(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "\nFound %d personas:\n", len(all))

	byRole := map[string][]personas.Persona{}
	for _, p := range all {
		role := p.Role
		if role == "" {
			role = "unknown"
		}
		byRole[role] = append(byRole[role], p)
	}
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Fprintf(r.out, "\n  %s:\n", role)
		for _, p := range byRole[role] {
			fmt.Fprintf(r.out, "    - %s: %s\n", p.ID, p.Name)
		}
	}

	fmt.Fprintln(r.out, "\nFetching security-analyst persona details...")
	security, err := r.client.Get(ctx, "security-analyst")
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "\n%s:\n", security.Name)
	fmt.Fprintf(r.out, "Role: %s\n", security.Role)
	fmt.Fprintf(r.out, "Description: %s\n", security.Description)
	if security.Approach != "" {
		fmt.Fprintf(r.out, "Approach: %s\n", security.Approach)
	}
	if len(security.Expertise) > 0 {
		n := len(security.Expertise)
		if n > 5 {
			n = 5
		}
		fmt.Fprintf(r.out, "Expertise areas: %s...\n", strings.Join(security.Expertise[:n], ", "))
	}
}

// Stats prints the server's aggregate recommendation statistics.
func (r *Runner) Stats(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 5: system statistics")

	result, err := r.client.CallTool(ctx, personas.ToolStats, map[string]interface{}{})
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	var stats statistics
	if err := decodeData(result, &stats); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "Total personas: %d\n", stats.TotalPersonas)
	fmt.Fprintf(r.out, "Available roles: %s\n", strings.Join(stats.AvailableRoles, ", "))

	fmt.Fprintln(r.out, "\nScoring algorithm weights:")
	factors := make([]string, 0, len(stats.ScoringWeights))
	for factor := range stats.ScoringWeights {
		factors = append(factors, factor)
	}
	sort.Strings(factors)
	for _, factor := range factors {
		fmt.Fprintf(r.out, "  %s: %.0f%%\n", factor, stats.ScoringWeights[factor]*100)
	}

	fmt.Fprintf(r.out, "\nSystem version: %s\n", stats.SystemInfo.Version)
	fmt.Fprintln(r.out, "Features:")
	for _, f := range stats.SystemInfo.Features {
		fmt.Fprintf(r.out, "  - %s\n", f)
	}
}

// Workflow chains the tools into a problem-solving sequence:
// recommend, explain the winner, then compare with alternatives.
func (r *Runner) Workflow(ctx context.Context) {
	fmt.Fprintln(r.out, "\nExample 6: problem-solving workflow")

	problem := map[string]interface{}{
		"title":       "Database performance issues",
		"description": "Production database experiencing slow queries, high CPU usage, and occasional timeouts during peak hours",
		"keywords":    []string{"database", "performance", "sql", "optimization", "production"},
		"complexity":  "complex",
		"urgency":     "high",
	}

	fmt.Fprintf(r.out, "Problem: %s\n", problem["title"])

	fmt.Fprintln(r.out, "\n1. Getting persona recommendations...")
	result, err := r.client.CallTool(ctx, personas.ToolRecommendPersona, problem)
	if err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	var recData struct {
		Recommendations []recommendation
	}
	if err := decodeData(result, &recData); err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	if len(recData.Recommendations) == 0 {
		fmt.Fprintln(r.out, "No recommendations found.")
		return
	}
	best := recData.Recommendations[0]
	fmt.Fprintf(r.out, "   Best match: %s (%.0f%%)\n", best.PersonaID, best.Score)

	fmt.Fprintf(r.out, "\n2. Understanding why %s is recommended...\n", best.PersonaID)
	explainArgs := map[string]interface{}{"personaId": best.PersonaID}
	for k, v := range problem {
		explainArgs[k] = v
	}
	explainResult, err := r.client.CallTool(ctx, personas.ToolExplainFit, explainArgs)
	if err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	var expl explanation
	if err := decodeData(explainResult, &expl); err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "   %s\n", expl.Reasoning)

	fmt.Fprintln(r.out, "\n3. Comparing with alternative approaches...")
	compareArgs := map[string]interface{}{
		"personaIds": []string{"optimizer", "database-admin", "debugger"},
	}
	for k, v := range problem {
		compareArgs[k] = v
	}
	compareResult, err := r.client.CallTool(ctx, personas.ToolComparePersonas, compareArgs)
	if err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	var compData struct {
		Comparisons []recommendation
	}
	if err := decodeData(compareResult, &compData); err != nil {
		fmt.Fprintf(r.out, "Error in workflow: %v\n", err)
		return
	}
	sort.Slice(compData.Comparisons, func(i, j int) bool {
		return compData.Comparisons[i].Score > compData.Comparisons[j].Score
	})
	fmt.Fprintln(r.out, "   Alternative perspectives:")
	for i, comp := range compData.Comparisons {
		if i == 2 {
			break
		}
		fmt.Fprintf(r.out, "   - %s: %s\n", comp.PersonaID, comp.Reasoning)
	}

	fmt.Fprintln(r.out, "\nWorkflow complete:")
	fmt.Fprintf(r.out, "   1. Primary persona: %s\n", best.PersonaID)
	fmt.Fprintln(r.out, "   2. Understanding of why it fits")
	fmt.Fprintln(r.out, "   3. Alternative perspectives to consider")
}

// decodeData lifts the conventional {"data": {...}} payload out of a
// tool result into a typed struct.
func decodeData(result map[string]interface{}, out interface{}) error {
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		return errors.New("response has no data field")
	}
	return mapstructure.Decode(data, out)
}
