// Package sizer computes the recursive byte size and file count of a
// matched result directory under bounded concurrency. The traversal
// itself is grounded on original_source/src/scanner/size.rs's
// calculate_dir_size, reshaped from recursion into an explicit stack of
// pending directories (see sumDir for what that stack holds), and the
// concurrency bound is grounded on the same file's semaphore-of-10 but
// sized from the teacher's tuner.Calculate "scale off NumCPU" heuristic
// instead of a fixed constant.
package sizer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/cachesweep/cachesweep/internal/model"
)

// DefaultPermitMultiplier is the factor applied to runtime.NumCPU to
// derive the default semaphore weight, inside the 8-32 range the
// component design calls for on typical machines.
const DefaultPermitMultiplier = 4

// Completion is one size-computation outcome, keyed by the stable index
// of the Result it was computed for.
type Completion struct {
	StableIndex int
	State       model.SizeState
}

// Sizer bounds the number of concurrent recursive size computations with
// a weighted semaphore; each computation holds one permit for its full
// duration.
type Sizer struct {
	sem *semaphore.Weighted
}

// New returns a Sizer with the given permit count. A permits value <= 0
// defaults to DefaultPermitMultiplier * runtime.NumCPU(), clamped to
// [8, 32].
func New(permits int) *Sizer {
	if permits <= 0 {
		permits = runtime.NumCPU() * DefaultPermitMultiplier
		if permits < 8 {
			permits = 8
		}
		if permits > 32 {
			permits = 32
		}
	}
	return &Sizer{sem: semaphore.NewWeighted(int64(permits))}
}

// Compute acquires a permit and recursively sums the byte size and file
// count under path, sending exactly one Completion on out. It blocks
// acquiring the permit until one is free or ctx is cancelled; in the
// latter case it emits a Failed{Cancelled} completion without ever
// visiting the filesystem.
func (s *Sizer) Compute(ctx context.Context, stableIndex int, path string, out chan<- Completion) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		out <- Completion{StableIndex: stableIndex, State: model.SizeState{Kind: model.SizeFailed, Reason: "cancelled"}}
		return
	}
	defer s.sem.Release(1)

	bytes, files, err := sumDir(ctx, path)
	if err != nil {
		out <- Completion{StableIndex: stableIndex, State: model.SizeState{Kind: model.SizeFailed, Reason: err.Error()}}
		return
	}
	out <- Completion{StableIndex: stableIndex, State: model.SizeState{Kind: model.SizeReady, Bytes: bytes, FileCount: files}}
}

// cancelledErr is returned internally by sumDir when ctx is done
// mid-walk; Compute reports it as the cancelled failure reason.
type cancelledErr struct{}

func (cancelledErr) Error() string { return "cancelled" }

// sumDir iteratively walks path depth-first using an explicit stack,
// summing regular file sizes and counting files. The stack holds every
// subdirectory found but not yet visited, so its size grows with the
// fan-out of the directories along the current path, not with depth
// alone. Symbolic links are never followed.
// Per-entry stat failures are skipped; they only reduce file_count, not
// bytes. The walk aborts as soon as ctx is cancelled.
func sumDir(ctx context.Context, root string) (bytes int64, files int64, err error) {
	stack := []string{root}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return bytes, files, cancelledErr{}
		default:
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			continue
		}

		for _, e := range entries {
			info, infoErr := e.Info()
			if infoErr != nil {
				continue
			}
			if info.Mode()&os.ModeSymlink != 0 {
				continue
			}
			if e.IsDir() {
				stack = append(stack, filepath.Join(dir, e.Name()))
				continue
			}
			if info.Mode().IsRegular() {
				bytes += info.Size()
				files++
			}
		}
	}

	return bytes, files, nil
}
