package scenario_test

import (
	"strings"
	"testing"

	"github.com/jihwankim/agentforge/pkg/scenario"
)

func TestNewAppliesDefaults(t *testing.T) {
	s, err := scenario.New(
		scenario.WithName("toy-market"),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "maker", Count: 1}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Seed != 1337 || s.Ticks != 100 || s.TickSeconds != 86400 {
		t.Fatalf("defaults not applied: %+v", s)
	}
	if s.Metrics.SampleEveryTicks != 1 {
		t.Fatalf("expected default sampleEveryTicks=1, got %d", s.Metrics.SampleEveryTicks)
	}
}

func TestNewRejectsEmptyAgents(t *testing.T) {
	_, err := scenario.New(scenario.WithName("toy-market"))
	if err == nil {
		t.Fatalf("expected InvalidScenarioError for empty agent list")
	}
	if !strings.Contains(err.Error(), "agent configuration") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsBadName(t *testing.T) {
	_, err := scenario.New(
		scenario.WithName("bad name!"),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "maker", Count: 1}),
	)
	if err == nil {
		t.Fatalf("expected error for name with disallowed characters")
	}
}

func TestParseSubstitutesVariables(t *testing.T) {
	yamlDoc := []byte(`
name: toy-${SUFFIX}
seed: 42
tickSeconds: 60
agents:
  - typeTag: maker
    count: 2
`)
	s, _, err := scenario.Parse(yamlDoc, map[string]string{"SUFFIX": "market"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "toy-market" {
		t.Fatalf("Name = %q, want toy-market", s.Name)
	}
	if s.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", s.Seed)
	}
}

func TestParseWarnsOnZeroTicksAndNoAssertions(t *testing.T) {
	yamlDoc := []byte(`
name: edge
tickSeconds: 60
ticks: 0
agents:
  - typeTag: maker
    count: 1
`)
	_, warnings, err := scenario.Parse(yamlDoc, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(warnings) < 2 {
		t.Fatalf("expected warnings for ticks=0 and no assertions, got %v", warnings)
	}
}

func TestParseFatalOnEmptyAgents(t *testing.T) {
	yamlDoc := []byte(`
name: edge
tickSeconds: 60
`)
	_, _, err := scenario.Parse(yamlDoc, nil)
	if err == nil {
		t.Fatalf("expected fatal InvalidScenarioError for empty agents")
	}
}

func TestLoadGoResolvesFactory(t *testing.T) {
	factory := func() (*scenario.Scenario, error) {
		return scenario.New(
			scenario.WithName("go-native"),
			scenario.WithAgent(scenario.AgentConfig{TypeTag: "taker", Count: 1}),
		)
	}
	s, _, err := scenario.LoadGo(factory)
	if err != nil {
		t.Fatalf("LoadGo: %v", err)
	}
	if s.Name != "go-native" {
		t.Fatalf("Name = %q, want go-native", s.Name)
	}
}
