package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jihwankim/agentforge/pkg/metrics"
)

// Writer owns the run directory and emits the canonical artifact set
// into it. Each method is independent so the engine can fail fast on the
// first write error (an ArtifactWriteError per the error taxonomy) while
// still having written whatever came before.
type Writer struct {
	runDir string
}

// NewWriter resolves <outDir>/<runID> and ensures it exists.
func NewWriter(outDir, runID string) (*Writer, error) {
	dir := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create run dir: %w", err)
	}
	return &Writer{runDir: dir}, nil
}

// RunDir returns the resolved <outDir>/<runID> path.
func (w *Writer) RunDir() string { return w.runDir }

// WriteSummary writes summary.json.
func (w *Writer) WriteSummary(s Summary) error {
	data, err := MarshalCanonical(s)
	if err != nil {
		return fmt.Errorf("artifact: marshal summary: %w", err)
	}
	return w.write("summary.json", data)
}

// WriteConfigResolved writes config_resolved.json.
func (w *Writer) WriteConfigResolved(v interface{}) error {
	data, err := MarshalCanonical(v)
	if err != nil {
		return fmt.Errorf("artifact: marshal config_resolved: %w", err)
	}
	return w.write("config_resolved.json", data)
}

// WriteMetricsCSV writes metrics.csv from a metrics.Collector.
func (w *Writer) WriteMetricsCSV(c *metrics.Collector) error {
	path := filepath.Join(w.runDir, "metrics.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifact: create metrics.csv: %w", err)
	}
	defer f.Close()
	if err := c.WriteCSV(f); err != nil {
		return fmt.Errorf("artifact: write metrics.csv: %w", err)
	}
	return nil
}

// WriteActions writes actions.ndjson.
func (w *Writer) WriteActions(log *ActionLogWriter) error {
	data, err := log.MarshalNDJSON()
	if err != nil {
		return fmt.Errorf("artifact: marshal actions.ndjson: %w", err)
	}
	return w.write("actions.ndjson", data)
}

func (w *Writer) write(name string, data []byte) error {
	path := filepath.Join(w.runDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", name, err)
	}
	return nil
}
