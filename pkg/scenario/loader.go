package scenario

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var substPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Load resolves a scenario from a YAML file, substituting ${VAR}/$VAR
// references against vars first and the process environment second,
// mirroring the chaos-scenario parser's substitution order exactly.
func Load(path string, vars map[string]string) (*Scenario, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(data, vars)
}

// Parse resolves a scenario from raw YAML bytes, returning the scenario,
// any non-fatal validation warnings, and an error wrapping every fatal
// issue (an *InvalidScenarioError) if validation failed.
func Parse(data []byte, vars map[string]string) (*Scenario, []string, error) {
	substituted := substituteVariables(string(data), vars)

	var s Scenario
	if err := yaml.Unmarshal([]byte(substituted), &s); err != nil {
		return nil, nil, fmt.Errorf("scenario: parse YAML: %w", err)
	}
	applyLoadDefaults(&s)

	warnings := collectWarnings(&s)
	if err := Validate(&s); err != nil {
		return nil, warnings, err
	}
	return &s, warnings, nil
}

func applyLoadDefaults(s *Scenario) {
	d := defaults()
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
	if s.TickSeconds == 0 {
		s.TickSeconds = d.TickSeconds
	}
	if s.Metrics.SampleEveryTicks == 0 {
		s.Metrics.SampleEveryTicks = 1
	}
}

// collectWarnings surfaces non-fatal issues: conditions that are
// suspicious but don't prevent a run, the same Warnings-vs-Errors split
// the chaos-scenario validator used.
func collectWarnings(s *Scenario) []string {
	var warnings []string
	if s.Ticks == 0 {
		warnings = append(warnings, "ticks is 0: only agent initialization will run, no tick body executes")
	}
	if len(s.Assertions) == 0 {
		warnings = append(warnings, "no assertions configured: run success will always be true")
	}
	for i, p := range s.Probes {
		if p.Name == "" {
			warnings = append(warnings, fmt.Sprintf("probes[%d] has no name", i))
		}
	}
	return warnings
}

func substituteVariables(content string, vars map[string]string) string {
	return substPattern.ReplaceAllStringFunc(content, func(match string) string {
		var name string
		if strings.HasPrefix(match, "${") {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}
		if vars != nil {
			if v, ok := vars[name]; ok {
				return v
			}
		}
		if v := os.Getenv(name); v != "" {
			return v
		}
		return match
	})
}
