package main

import (
	"encoding/json"
	"fmt"

	"github.com/jihwankim/agentforge/pkg/engine"
)

func printRunResultJSON(r *engine.RunResult) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Println("{}")
		return
	}
	fmt.Println(string(data))
}

func printRunResultText(r *engine.RunResult) {
	status := "PASSED"
	if !r.Success {
		status = "FAILED"
	}
	fmt.Printf("\n%s  run_id=%s  ticks=%d  duration=%dms\n", status, r.RunID, r.Ticks, r.DurationMs)
	for _, v := range r.FailedAssertions {
		fmt.Printf("  assertion failed: %s\n", v.Message)
	}
	for _, s := range r.AgentStats {
		fmt.Printf("  %-16s attempted=%-6d succeeded=%-6d failed=%d\n", s.AgentID, s.Attempted, s.Succeeded, s.Failed)
	}
	fmt.Printf("artifacts written to %s\n", r.OutputDir)
}
