package checkpoint_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jihwankim/agentforge/pkg/checkpoint"
)

func TestShouldCheckpointNeverAtTickZero(t *testing.T) {
	w := checkpoint.NewWriter(checkpoint.Config{EveryTicks: 5}, t.TempDir(), func() string { return "x" })
	if w.ShouldCheckpoint(0) {
		t.Fatalf("tick 0 must never checkpoint")
	}
	if !w.ShouldCheckpoint(5) {
		t.Fatalf("tick 5 should checkpoint with EveryTicks=5")
	}
	if w.ShouldCheckpoint(6) {
		t.Fatalf("tick 6 should not checkpoint with EveryTicks=5")
	}
}

func TestWriteProducesZeroPaddedFile(t *testing.T) {
	dir := t.TempDir()
	w := checkpoint.NewWriter(checkpoint.Config{EveryTicks: 1}, dir, func() string { return "2026-01-01T00:00:00Z" })
	err := w.Write(checkpoint.Checkpoint{
		Tick:      7,
		Timestamp: 1700000007,
		WorldSummary: checkpoint.WorldSummary{
			Timestamp: 1700000007,
			Metrics:   map[string]interface{}{"volume": 1.0},
		},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(dir, "checkpoints", "tick_00007.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected zero-padded checkpoint file: %v", err)
	}
	var got checkpoint.Checkpoint
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("checkpoint not valid JSON: %v", err)
	}
	if got.Tick != 7 {
		t.Fatalf("round-tripped tick = %d, want 7", got.Tick)
	}
	if data[len(data)-1] != '\n' {
		t.Fatalf("expected trailing newline")
	}
}
