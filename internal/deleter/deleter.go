// Package deleter performs the permanent, recursive removal of a
// matched result directory. It is grounded on the fallback path of the
// teacher's pkg/sweep/trash/trash.go (fallbackDelete): a single
// os.RemoveAll call, wrapped with an error. The teacher's OS-trash
// integration (AppleScript/gio/trash-cli) is not carried forward, see
// DESIGN.md, because spec.md §4.8 and its S6 seed scenario describe
// permanent-or-dry-run removal, never a recoverable trash.
package deleter

import (
	"context"
	"fmt"
	"os"

	"github.com/cachesweep/cachesweep/internal/model"
)

// ErrSensitive is returned when a deletion is refused because the
// target path's sensitivity flag is set.
var ErrSensitive = fmt.Errorf("deleter: refused, path is sensitive")

// Deleter removes matched directories from the filesystem, or simulates
// doing so in dry-run mode.
type Deleter struct {
	dryRun bool
}

// New returns a Deleter. In dry-run mode, Delete reports success without
// ever touching the filesystem (spec.md §4.8, S6).
func New(dryRun bool) *Deleter {
	return &Deleter{dryRun: dryRun}
}

// Delete removes result.Path recursively. It refuses sensitive paths
// outright, returning ErrSensitive without consulting the filesystem or
// the dry-run flag: sensitivity is checked before dry-run applies, so a
// dry-run over sensitive results still reports the refusal rather than a
// false "deleted."
func (d *Deleter) Delete(ctx context.Context, result model.Result) error {
	if result.Sensitive {
		return ErrSensitive
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if d.dryRun {
		return nil
	}
	if err := os.RemoveAll(result.Path); err != nil {
		return fmt.Errorf("deleter: removing %q: %w", result.Path, err)
	}
	return nil
}

// DryRun reports whether the Deleter is configured for dry-run mode.
func (d *Deleter) DryRun() bool {
	return d.dryRun
}
