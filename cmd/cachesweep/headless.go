package main

import (
	"context"
	"os"

	"github.com/spf13/viper"

	"github.com/cachesweep/cachesweep/internal/logging"
	"github.com/cachesweep/cachesweep/internal/model"
	"github.com/cachesweep/cachesweep/internal/output"
	"github.com/cachesweep/cachesweep/internal/sizer"
)

// runHeadless drives the walker and sizer directly, bypassing
// eventloop/DisplayModel entirely: there is no cursor, no marking, and
// no delete path in --json/--json-stream modes (spec.md §4.10 describes
// a report, not an interactive session), so the tick-gated loop those
// concepts live in would be pure overhead here.
func runHeadless(ctx context.Context, setup *scanSetup) error {
	sinkName := "json"
	if viper.GetBool("json-stream") {
		sinkName = "json-stream"
	}
	sink, err := output.Get(sinkName, os.Stdout)
	if err != nil {
		return err
	}

	showProtected := viper.GetBool("show-protected")
	logger := logging.Get("cachesweep")

	batches, rootErr := setup.walker.Run(ctx)

	var (
		results []model.Result
		done    = make(chan sizer.Completion, 64)
		inFlight int
	)

	for batch := range batches {
		for _, r := range batch {
			idx := len(results)
			results = append(results, r)
			if r.Sensitive && !showProtected {
				continue
			}
			inFlight++
			go setup.sizer.Compute(ctx, idx, r.Path, done)
		}
	}
	if err := <-rootErr; err != nil {
		return err
	}

	var totalSize int64
	var totalCount int
	for inFlight > 0 {
		c := <-done
		inFlight--
		r := results[c.StableIndex]
		if r.Sensitive && !showProtected {
			continue
		}
		entry := output.Entry{
			Path:      r.Path,
			Target:    r.Target,
			Profile:   r.Profile,
			ModTime:   r.ModTime,
			Sensitive: r.Sensitive,
		}
		switch c.State.Kind {
		case model.SizeReady:
			entry.Bytes = c.State.Bytes
			entry.FileCount = c.State.FileCount
			totalSize += c.State.Bytes
			totalCount++
		case model.SizeFailed:
			entry.Failed = true
			entry.Reason = c.State.Reason
		}
		if err := sink.Write(entry); err != nil {
			return err
		}
	}

	for _, scanErr := range setup.walker.Errors() {
		logger.Warn(scanErr.Path + ": " + scanErr.Err.Error())
	}

	return sink.Close(output.Summary{
		TotalSize:  totalSize,
		TotalCount: totalCount,
		RunID:      setup.runID,
	})
}
