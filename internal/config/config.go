package config

import (
	"github.com/google/uuid"
	"os"
)

type Config struct {
	MCPURL    string // tool-invocation endpoint
	APIURL    string // REST API base
	HealthURL string // liveness probe, checked before a demo run
	ClientID  string // correlation id sent with every outbound request

	GuardEnabled bool   // screen outgoing tool arguments for secrets
	GuardRules   string // path to the gitleaks TOML ruleset
}

func NewConfig() *Config {
	return &Config{
		MCPURL:       getEnv("PERSONAS_MCP_URL", "http://localhost:3000/mcp"),
		APIURL:       getEnv("PERSONAS_API_URL", "http://localhost:3000/api"),
		HealthURL:    getEnv("PERSONAS_HEALTH_URL", "http://localhost:3000/health"),
		ClientID:     uuid.NewString(),
		GuardEnabled: getEnv("PERSONAS_GUARD", "false") == "true",
		GuardRules:   getEnv("PERSONAS_GUARD_RULES", "internal/guard/rules.toml"),
	}
}

// Helper function to read environment variables with defaults
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
