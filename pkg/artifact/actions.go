package artifact

import "encoding/json"

// ActionRef mirrors the actions.ndjson "action" sub-object.
type ActionRef struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

// ResultRef mirrors the actions.ndjson "result" sub-object. GasUsed
// serializes as a string per the artifact contract.
type ResultRef struct {
	Ok      bool    `json:"ok"`
	Error   string  `json:"error,omitempty"`
	GasUsed *string `json:"gasUsed,omitempty"`
	TxHash  string  `json:"txHash,omitempty"`
}

// ActionRecord is one line of actions.ndjson, appended by the engine in
// execution order regardless of whether the agent produced an action or
// the pack accepted it.
type ActionRecord struct {
	Tick       uint64     `json:"tick"`
	Timestamp  int64      `json:"timestamp"`
	AgentID    string     `json:"agentId"`
	AgentType  string     `json:"agentType"`
	Action     *ActionRef `json:"action"`
	Result     *ResultRef `json:"result"`
	DurationMs int64      `json:"durationMs"`
}

// ActionLogWriter accumulates ActionRecords and renders them as compact
// NDJSON: one record per line, no final blank line beyond the last
// record's own newline.
type ActionLogWriter struct {
	records []ActionRecord
}

// NewActionLogWriter builds an empty writer.
func NewActionLogWriter() *ActionLogWriter {
	return &ActionLogWriter{}
}

// Append adds one record, preserving call order.
func (w *ActionLogWriter) Append(r ActionRecord) {
	w.records = append(w.records, r)
}

// Records returns all appended records in append order.
func (w *ActionLogWriter) Records() []ActionRecord {
	return w.records
}

// MarshalNDJSON renders every record as a compact JSON object followed by
// a single newline, concatenated in append order.
func (w *ActionLogWriter) MarshalNDJSON() ([]byte, error) {
	var out []byte
	for _, r := range w.records {
		line, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}
