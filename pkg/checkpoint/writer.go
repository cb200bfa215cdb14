package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AgentMemorySnapshot is the per-agent slice of a checkpoint's optional
// agent_states section.
type AgentMemorySnapshot struct {
	Memory          map[string]interface{} `json:"memory"`
	ActiveCooldowns map[string]uint64      `json:"activeCooldowns"`
}

// Checkpoint mirrors the on-disk tick_NNNNN.json shape.
type Checkpoint struct {
	Tick          uint64                         `json:"tick"`
	Timestamp     int64                          `json:"timestamp"`
	CreatedAt     string                         `json:"createdAt"`
	WorldSummary  WorldSummary                   `json:"worldSummary"`
	AgentStates   map[string]AgentMemorySnapshot `json:"agentStates,omitempty"`
	ProbeValues   map[string]interface{}         `json:"probeValues,omitempty"`
}

// WorldSummary is the checkpoint's world_summary field.
type WorldSummary struct {
	Timestamp int64                  `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics"`
}

// Config controls checkpoint cadence and content.
type Config struct {
	EveryTicks         uint64
	IncludeAgentMemory bool
	IncludeProbes      bool
}

// Writer decides when to checkpoint and serializes the result to disk.
type Writer struct {
	cfg Config
	dir string
	// nowFn supplies the wall-clock CreatedAt stamp; overridden in tests.
	// This is the one place a checkpoint touches wall-clock time, and the
	// field is excluded from the determinism fingerprint by contract.
	nowFn func() string
}

// NewWriter builds a Writer that writes into dir/checkpoints (dir is the
// run directory; the checkpoints subdirectory is created lazily on first
// write).
func NewWriter(cfg Config, runDir string, nowFn func() string) *Writer {
	return &Writer{cfg: cfg, dir: runDir, nowFn: nowFn}
}

// ShouldCheckpoint reports whether tick is a checkpoint tick: tick > 0
// and tick mod EveryTicks == 0. Tick 0 is never checkpointed.
func (w *Writer) ShouldCheckpoint(tick uint64) bool {
	if w.cfg.EveryTicks == 0 {
		return false
	}
	return tick > 0 && tick%w.cfg.EveryTicks == 0
}

// Write serializes cp to checkpoints/tick_NNNNN.json under the run
// directory, creating the directory if needed.
func (w *Writer) Write(cp Checkpoint) error {
	dir := filepath.Join(w.dir, "checkpoints")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create dir: %w", err)
	}
	cp.CreatedAt = w.nowFn()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, fmt.Sprintf("tick_%05d.json", cp.Tick))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	return nil
}
