// Package guard screens outgoing tool-call arguments for leaked
// secrets before they are sent to a remote server.
package guard

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

type Engine struct {
	detector *detect.Detector
}

// NewEngine creates a screening engine from a gitleaks TOML ruleset.
func NewEngine(rulesPath string) (*Engine, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(rulesPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read ruleset: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ruleset: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate ruleset: %w", err)
	}

	return &Engine{
		detector: detect.NewDetector(cfg),
	}, nil
}

// Screen runs the detector over every string-valued argument. A hit
// returns a *Violation and the call must not be sent.
func (e *Engine) Screen(tool string, arguments map[string]interface{}) error {
	var findings []string

	for key, arg := range arguments {
		argStr, ok := arg.(string)
		if !ok {
			continue
		}
		for _, res := range e.detector.DetectString(argStr) {
			findings = append(findings, fmt.Sprintf("%s: %s", key, res.Description))
		}
	}

	if len(findings) > 0 {
		return &Violation{Tool: tool, Findings: findings}
	}
	return nil
}

// Violation reports arguments that matched the ruleset.
type Violation struct {
	Tool     string
	Findings []string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("call to %s blocked, sensitive content in arguments: %s",
		v.Tool, strings.Join(v.Findings, "; "))
}
