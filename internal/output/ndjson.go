package output

import (
	"encoding/json"
	"io"

	"github.com/dustin/go-humanize"
)

// ndjsonSink writes one JSON object per line, flushed immediately, as
// each result completes. It carries no trailing summary line (spec.md
// §4.10: "No trailing summary"); Close is a no-op and does not flush or
// close the underlying writer.
type ndjsonSink struct {
	enc *json.Encoder
}

// NewNDJSONSink returns a Sink that streams one compact JSON object per
// completed result.
func NewNDJSONSink(w io.Writer) Sink {
	return &ndjsonSink{enc: json.NewEncoder(w)}
}

func (s *ndjsonSink) Write(e Entry) error {
	e.SizeHuman = humanize.IBytes(uint64(max64(e.Bytes, 0)))
	return s.enc.Encode(e)
}

func (s *ndjsonSink) Close(Summary) error {
	return nil
}

func init() {
	Register("json-stream", NewNDJSONSink)
}
