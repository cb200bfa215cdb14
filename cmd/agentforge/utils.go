package main

import (
	"fmt"
	"os"

	makeragent "github.com/jihwankim/agentforge/examples/agents/maker"
	takeragent "github.com/jihwankim/agentforge/examples/agents/taker"
	"github.com/jihwankim/agentforge/examples/packs/toy"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rfconfig"
)

// assertionFailureError marks a run that completed but left
// success=false — maps to exit class 1, distinct from an infrastructure
// failure.
type assertionFailureError struct{ msg string }

func (e *assertionFailureError) Error() string { return e.msg }

// exitCodeFor maps a returned error to the process exit class per the
// invocation table: 0 ok, 1 assertion failure, 2 infrastructure error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*assertionFailureError); ok {
		return 1
	}
	return 2
}

// loadConfig loads the ambient CLI configuration from file, auto-
// generating a default if none exists yet.
func loadConfig() (*rfconfig.Config, error) {
	configPath := cfgFile
	if configPath == "" {
		configPath = "config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file not found, creating default configuration at: %s\n", configPath)
		cfg := rfconfig.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := rfconfig.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// defaultRegistry returns the engine.Registry backing the CLI's built-in
// agent types.
func defaultRegistry() engine.Registry {
	return engine.Registry{
		"maker": makeragent.New,
		"taker": takeragent.New,
	}
}

// resolvePack builds a pack.Pack for a pack name known to the CLI.
// Currently only "toy" (examples/packs/toy) is registered; a real
// deployment would extend this with its own pack implementations.
func resolvePack(name string) (pack.Pack, error) {
	switch name {
	case "", "toy":
		return toy.New(100.0), nil
	default:
		return nil, fmt.Errorf("unknown pack %q (only \"toy\" is built in)", name)
	}
}
