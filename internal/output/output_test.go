package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestJSONSinkEmitsSingleAggregatedObject(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	entries := []Entry{
		{Path: "/r/a/node_modules", Target: "node_modules", Bytes: 1000, FileCount: 10, ModTime: time.Now()},
		{Path: "/r/b/target", Target: "target", Bytes: 2000, FileCount: 20, ModTime: time.Now()},
	}
	for _, e := range entries {
		if err := sink.Write(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(Summary{TotalSize: 3000, TotalCount: 2, RunID: "abc"}); err != nil {
		t.Fatal(err)
	}

	var doc aggregatedDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not a single JSON object: %v", err)
	}
	if len(doc.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(doc.Results))
	}
	if doc.TotalSize != 3000 || doc.TotalCount != 2 {
		t.Fatalf("unexpected totals: %+v", doc)
	}
	if doc.RunID != "abc" {
		t.Fatalf("expected run_id to round-trip, got %q", doc.RunID)
	}
}

func TestNDJSONSinkWritesOneLinePerResultWithNoTrailingSummary(t *testing.T) {
	var buf bytes.Buffer
	sink := NewNDJSONSink(&buf)

	if err := sink.Write(Entry{Path: "/r/a/node_modules", Bytes: 500}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(Entry{Path: "/r/b/target", Bytes: 750}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(Summary{TotalSize: 1250, TotalCount: 2}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected exactly 2 lines (no trailing summary), got %d: %v", len(lines), lines)
	}
	var first Entry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Path != "/r/a/node_modules" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
}

func TestRegistryResolvesBothSinks(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{"json", "json-stream"} {
		if _, err := Get(name, &buf); err != nil {
			t.Fatalf("expected %q to be registered: %v", name, err)
		}
	}
}

func TestGetUnknownSinkErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Get("yaml", &buf); err == nil {
		t.Fatal("expected an error for an unregistered sink name")
	}
}

func TestSizeHumanIsPopulatedOnWrite(t *testing.T) {
	var buf bytes.Buffer
	sink := NewNDJSONSink(&buf)
	if err := sink.Write(Entry{Path: "/r/a", Bytes: 1 << 20}); err != nil {
		t.Fatal(err)
	}
	var e Entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatal(err)
	}
	if e.SizeHuman == "" {
		t.Fatal("expected size_human to be populated")
	}
}
