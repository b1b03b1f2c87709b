package output

import (
	"encoding/json"
	"io"

	"github.com/dustin/go-humanize"
)

// aggregatedDocument is the single JSON object spec.md §4.10 requires:
// results, total_size, total_count, plus a top-level run_id field (§6.2).
type aggregatedDocument struct {
	Results    []Entry `json:"results"`
	TotalSize  int64   `json:"total_size"`
	TotalCount int     `json:"total_count"`
	RunID      string  `json:"run_id,omitempty"`
}

// jsonSink buffers every entry and emits one indented JSON object on
// Close, after the scan and all size computations complete.
type jsonSink struct {
	w       io.Writer
	entries []Entry
}

// NewJSONSink returns a Sink that emits the aggregated-JSON document.
func NewJSONSink(w io.Writer) Sink {
	return &jsonSink{w: w}
}

func (s *jsonSink) Write(e Entry) error {
	e.SizeHuman = humanize.IBytes(uint64(max64(e.Bytes, 0)))
	s.entries = append(s.entries, e)
	return nil
}

func (s *jsonSink) Close(summary Summary) error {
	doc := aggregatedDocument{
		Results:    s.entries,
		TotalSize:  summary.TotalSize,
		TotalCount: summary.TotalCount,
		RunID:      summary.RunID,
	}
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func init() {
	Register("json", NewJSONSink)
}
