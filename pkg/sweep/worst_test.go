package sweep

import (
	"testing"

	"github.com/jihwankim/agentforge/pkg/engine"
)

func TestWorstRunsZeroAttemptedRanksAsWorst(t *testing.T) {
	runs := []*engine.RunResult{
		{RunID: "all-skipped", Seed: 1, AgentStats: []engine.AgentStat{{Attempted: 0, Succeeded: 0}}},
		{RunID: "all-succeeded", Seed: 2, AgentStats: []engine.AgentStat{{Attempted: 10, Succeeded: 10}}},
	}
	out := worstRuns(runs, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 worst-run entries, got %d", len(out))
	}
	if out[0].RunID != "all-skipped" || out[0].SuccessRate != 0 {
		t.Fatalf("expected all-skipped run to rank worst with rate 0, got %+v", out[0])
	}
	if out[1].RunID != "all-succeeded" || out[1].SuccessRate != 1 {
		t.Fatalf("expected all-succeeded run to rank best with rate 1, got %+v", out[1])
	}
}
