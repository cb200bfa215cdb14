package metrics

import (
	"fmt"
	"io"
	"strconv"
)

// WriteCSV renders the collector's samples as metrics.csv: header
// "tick,timestamp,<columns...>", LF line endings, empty fields for
// missing values, one final LF after the last row. encoding/csv is not
// used directly because it defaults to CRLF-unaware but quote-happy
// behavior; the artifact contract calls for a plain, unquoted ASCII
// table, so fields are written by hand the way the teacher's fixed-width
// table emission keeps full control over byte layout.
func (c *Collector) WriteCSV(w io.Writer) error {
	header := append([]string{"tick", "timestamp"}, c.columns...)
	if _, err := fmt.Fprintf(w, "%s\n", joinComma(header)); err != nil {
		return err
	}
	for _, s := range c.samples {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatUint(s.Tick, 10))
		row = append(row, strconv.FormatInt(s.Timestamp, 10))
		for _, col := range c.columns {
			if v, ok := s.Metrics[col]; ok {
				row = append(row, v.CSVField())
			} else {
				row = append(row, "")
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", joinComma(row)); err != nil {
			return err
		}
	}
	return nil
}

func joinComma(fields []string) string {
	out := make([]byte, 0, 64)
	for i, f := range fields {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, f...)
	}
	return string(out)
}
