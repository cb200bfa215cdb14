package artifact

import "strings"

// RunID derives the run identifier. CI mode yields "<scenario>-ci", a
// stable value for artifact diffing; otherwise it embeds iso8601Stamp
// (the caller's wall-clock reading) with ':' and '.' replaced by '-' so
// the id is filesystem-safe.
func RunID(scenarioName string, ci bool, iso8601Stamp string) string {
	if ci {
		return scenarioName + "-ci"
	}
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(iso8601Stamp)
	return scenarioName + "-" + stamp
}
