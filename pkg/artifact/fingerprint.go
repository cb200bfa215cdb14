package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Fingerprint is the tuple of SHA-256 hashes (hex-encoded) used to
// certify two runs are observably identical, per spec: summary.json,
// config_resolved.json (with options.outDir dropped), metrics.csv, and
// actions.ndjson (with each record's durationMs/timestamp projected out).
type Fingerprint struct {
	Summary         string
	ConfigResolved  string
	MetricsCSV      string
	ActionsNDJSON   string
}

// Compute builds a Fingerprint from the raw artifact bytes. summaryJSON
// has its timestamp and durationMs fields stripped before hashing.
// configResolved is the raw JSON document; the options.outDir key is
// removed (if present) before hashing. actionsNDJSON is normalized by
// stripping each record's timestamp and durationMs fields before
// hashing, since all of these are wall-clock-influenced.
func Compute(summaryJSON, configResolvedJSON, metricsCSV, actionsNDJSON []byte) (Fingerprint, error) {
	normalizedSummary, err := normalizeSummary(summaryJSON)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: normalize summary: %w", err)
	}
	normalizedConfig, err := dropOutDir(configResolvedJSON)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: normalize config_resolved: %w", err)
	}
	normalizedActions, err := normalizeActions(actionsNDJSON)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: normalize actions.ndjson: %w", err)
	}

	return Fingerprint{
		Summary:        hashHex(normalizedSummary),
		ConfigResolved: hashHex(normalizedConfig),
		MetricsCSV:     hashHex(metricsCSV),
		ActionsNDJSON:  hashHex(normalizedActions),
	}, nil
}

// Equal reports whether two fingerprints match on every component.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Summary == other.Summary &&
		f.ConfigResolved == other.ConfigResolved &&
		f.MetricsCSV == other.MetricsCSV &&
		f.ActionsNDJSON == other.ActionsNDJSON
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// normalizeSummary strips timestamp and durationMs from the decoded
// summary document before hashing, since both are wall-clock-influenced
// and excluded from the determinism fingerprint per summary.go's
// Timestamp field comment.
func normalizeSummary(raw []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "timestamp")
	delete(doc, "durationMs")
	return MarshalCanonical(doc)
}

func dropOutDir(raw []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if opts, ok := doc["options"].(map[string]interface{}); ok {
		delete(opts, "outDir")
	}
	return MarshalCanonical(doc)
}

func normalizeActions(raw []byte) ([]byte, error) {
	var out strings.Builder
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		delete(rec, "timestamp")
		delete(rec, "durationMs")
		norm, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		out.Write(norm)
		out.WriteByte('\n')
	}
	return []byte(out.String()), nil
}
