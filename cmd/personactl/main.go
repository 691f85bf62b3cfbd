package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/personactl/personactl/internal/config"
	"github.com/personactl/personactl/internal/demo"
	"github.com/personactl/personactl/internal/guard"
	"github.com/personactl/personactl/internal/mockserver"
	"github.com/personactl/personactl/internal/personas"
	"github.com/spf13/cobra"
)

var guardFlag bool

func main() {
	var rootCmd = &cobra.Command{
		Use:   "personactl",
		Short: "personactl - a command-line client for a Personas MCP server",
	}
	rootCmd.PersistentFlags().BoolVar(&guardFlag, "guard", false, "screen outgoing tool arguments for secrets before sending")

	rootCmd.AddCommand(
		newRecommendCmd(),
		newExplainCmd(),
		newCompareCmd(),
		newPersonasCmd(),
		newStatsCmd(),
		newDemoCmd(),
		newMockCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newClient() *personas.Client {
	cfg := config.NewConfig()

	opts := []personas.Option{personas.WithClientID(cfg.ClientID)}
	if guardFlag || cfg.GuardEnabled {
		engine, err := guard.NewEngine(cfg.GuardRules)
		if err != nil {
			log.Fatalf("Failed to load guard ruleset: %v", err)
		}
		opts = append(opts, personas.WithScreener(engine))
	}

	return personas.NewClient(cfg.MCPURL, cfg.APIURL, cfg.HealthURL, opts...)
}

// taskFlags are the free-form task fields forwarded to the server's
// scoring tools. Empty fields are omitted from the arguments.
type taskFlags struct {
	title       string
	description string
	keywords    []string
	complexity  string
	domain      string
}

func (t *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.title, "title", "", "task title")
	cmd.Flags().StringVar(&t.description, "description", "", "task description")
	cmd.Flags().StringSliceVar(&t.keywords, "keywords", nil, "task keywords")
	cmd.Flags().StringVar(&t.complexity, "complexity", "", "task complexity (simple|moderate|complex|expert)")
	cmd.Flags().StringVar(&t.domain, "domain", "", "task domain")
}

func (t *taskFlags) arguments() map[string]interface{} {
	args := map[string]interface{}{}
	if t.title != "" {
		args["title"] = t.title
	}
	if t.description != "" {
		args["description"] = t.description
	}
	if len(t.keywords) > 0 {
		args["keywords"] = t.keywords
	}
	if t.complexity != "" {
		args["complexity"] = t.complexity
	}
	if t.domain != "" {
		args["domain"] = t.domain
	}
	return args
}

func newRecommendCmd() *cobra.Command {
	var task taskFlags
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the server which personas fit a task",
		Run: func(cmd *cobra.Command, args []string) {
			callAndPrint(personas.ToolRecommendPersona, task.arguments())
		},
	}
	task.register(cmd)
	cmd.MarkFlagRequired("title")
	return cmd
}

func newExplainCmd() *cobra.Command {
	var task taskFlags
	var personaID string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Ask why a specific persona fits a task",
		Run: func(cmd *cobra.Command, args []string) {
			arguments := task.arguments()
			arguments["personaId"] = personaID
			callAndPrint(personas.ToolExplainFit, arguments)
		},
	}
	task.register(cmd)
	cmd.Flags().StringVar(&personaID, "persona", "", "persona id to explain")
	cmd.MarkFlagRequired("persona")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var task taskFlags
	var personaIDs []string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare several personas against one task",
		Run: func(cmd *cobra.Command, args []string) {
			arguments := task.arguments()
			arguments["personaIds"] = personaIDs
			callAndPrint(personas.ToolComparePersonas, arguments)
		},
	}
	task.register(cmd)
	cmd.Flags().StringSliceVar(&personaIDs, "personas", nil, "persona ids to compare")
	cmd.MarkFlagRequired("personas")
	return cmd
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas [id]",
		Short: "List all personas, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client := newClient()
			ctx := context.Background()

			if len(args) == 1 {
				p, err := client.Get(ctx, args[0])
				if err != nil {
					log.Fatalf("Failed to fetch persona: %v", err)
				}
				printJSON(p)
				return
			}

			all, err := client.List(ctx)
			if err != nil {
				log.Fatalf("Failed to fetch personas: %v", err)
			}
			printJSON(all)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the server's recommendation statistics",
		Run: func(cmd *cobra.Command, args []string) {
			callAndPrint(personas.ToolStats, map[string]interface{}{})
		},
	}
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the full client walkthrough against the configured server",
		Run: func(cmd *cobra.Command, args []string) {
			runner := demo.NewRunner(newClient(), os.Stdout)
			if err := runner.Run(context.Background()); err != nil {
				log.Fatalf("Demo aborted: %v", err)
			}
		},
	}
}

func newMockCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a local stub Personas server for offline use",
		Run: func(cmd *cobra.Command, args []string) {
			runMockServer(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 3000, "port to listen on")
	return cmd
}

func runMockServer(port int) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mockserver.New().Handler(),
	}

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting mock Personas server on port %d", port)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)
	case <-shutdown:
		log.Println("Shutting down server...")
		server.Close()
		log.Println("Mock server shut down successfully")
	}
}

func callAndPrint(tool string, arguments map[string]interface{}) {
	client := newClient()
	result, err := client.CallTool(context.Background(), tool, arguments)
	if err != nil {
		log.Fatalf("Tool call failed: %v", err)
	}
	printJSON(result)
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render response: %v", err)
	}
	fmt.Println(string(b))
}
