package scenario

// Factory is the shape a Go-native scenario package exposes: either a
// package-level `var Scenario = scenario.Scenario{...}` wrapped in a
// trivial closure, or a `func Scenario() (*scenario.Scenario, error)`
// directly. Go has no runtime dynamic-import-by-path outside of the
// plugin build mode (itself platform-limited and out of scope), so
// "import the module, accept a default or named scenario export" is
// rendered here as "accept a Factory value the caller already resolved
// via a normal Go import" — callers (the CLI, tests) import the concrete
// package under examples/scenarios and pass its Factory through.
type Factory func() (*Scenario, error)

// LoadGo resolves a Factory the same way Load resolves a YAML file:
// build the scenario, validate it, return warnings alongside it.
func LoadGo(f Factory) (*Scenario, []string, error) {
	s, err := f()
	if err != nil {
		return nil, nil, err
	}
	applyLoadDefaults(s)
	warnings := collectWarnings(s)
	if err := Validate(s); err != nil {
		return nil, warnings, err
	}
	return s, warnings, nil
}
