package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cachesweep/cachesweep/internal/config"
	"github.com/cachesweep/cachesweep/internal/deleter"
	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/logging"
	"github.com/cachesweep/cachesweep/internal/model"
	"github.com/cachesweep/cachesweep/internal/profiles"
	"github.com/cachesweep/cachesweep/internal/sensitivity"
	"github.com/cachesweep/cachesweep/internal/sizer"
	"github.com/cachesweep/cachesweep/internal/target"
	"github.com/cachesweep/cachesweep/internal/tui"
	"github.com/cachesweep/cachesweep/internal/walker"
)

// scanSetup bundles everything both the interactive and headless run
// paths need, resolved once from flags and the layered config file.
type scanSetup struct {
	runID   string
	root    string
	matcher *target.Matcher
	walker  *walker.Walker
	sizer   *sizer.Sizer
	deleter *deleter.Deleter
	sortKey model.SortKey
	cfg     *config.Config
}

func resolveScanRoot() (string, error) {
	full := viper.GetBool("full")
	dir := viper.GetString("directory")
	if full && dir != "" {
		return "", fmt.Errorf("-d/--directory and -f/--full are mutually exclusive")
	}
	if full {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return home, nil
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("scan root %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %q is not a directory", abs)
	}
	return abs, nil
}

func resolveSortKey(s string) (model.SortKey, error) {
	switch s {
	case "size", "":
		return model.SortSizeDesc, nil
	case "path":
		return model.SortPathAsc, nil
	case "age":
		return model.SortAgeDesc, nil
	default:
		return 0, fmt.Errorf("invalid --sort %q: want size, path, or age", s)
	}
}

// resolveMatcher turns -p/--profiles and -t/--targets into a
// target.Matcher. -t, when given, overrides -p entirely (spec.md §6):
// its names are literal target basenames with no profile attribution.
func resolveMatcher(cfg *config.Config) (*target.Matcher, error) {
	exclude := append([]string(nil), cfg.Exclude...)
	exclude = append(exclude, viper.GetStringSlice("exclude")...)

	if literalTargets := viper.GetStringSlice("targets"); len(literalTargets) > 0 {
		literals := make(map[string]string, len(literalTargets))
		globs := make(map[string]string)
		for _, t := range literalTargets {
			if hasGlobChars(t) {
				globs[t] = ""
			} else {
				literals[t] = ""
			}
		}
		return target.New(literals, globs, exclude, false)
	}

	names := viper.GetStringSlice("profiles")
	if len(names) == 0 {
		names = []string{"all"}
	}
	resolved, err := profiles.Resolve(names)
	if err != nil {
		return nil, err
	}
	literals, globs := profiles.SplitTargets(resolved)
	return target.New(literals, globs, exclude, false)
}

func hasGlobChars(s string) bool {
	for _, r := range s {
		if r == '*' {
			return true
		}
	}
	return false
}

func newScanSetup() (*scanSetup, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	root, err := resolveScanRoot()
	if err != nil {
		return nil, err
	}

	matcher, err := resolveMatcher(cfg)
	if err != nil {
		return nil, err
	}

	sortKey, err := resolveSortKey(viper.GetString("sort"))
	if err != nil {
		return nil, err
	}

	classifier := sensitivity.Default(append([]string{xdg.ConfigHome, xdg.DataHome, xdg.StateHome}, cfg.SensitiveRoots...))

	w := walker.New(walker.Options{
		Root:          root,
		Matcher:       matcher,
		Classifier:    classifier,
		FollowLinks:   viper.GetBool("follow-links"),
		RespectIgnore: viper.GetBool("respect-ignore"),
	})

	return &scanSetup{
		runID:   uuid.New().String(),
		root:    root,
		matcher: matcher,
		walker:  w,
		sizer:   sizer.New(cfg.SizerPermits),
		deleter: deleter.New(viper.GetBool("dry-run")),
		sortKey: sortKey,
		cfg:     cfg,
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	setup, err := newScanSetup()
	if err != nil {
		return err
	}

	interactive := !viper.GetBool("json") && !viper.GetBool("json-stream")

	if err := logging.Init(logging.Config{
		Level:   setup.cfg.LogLevel,
		Path:    config.DefaultLogPath(),
		TUIMode: interactive,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Close()

	logger := logging.Get("cachesweep")
	logger.Info(fmt.Sprintf("run %s: scanning %s", setup.runID, setup.root))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	defer signal.Stop(sigCh)

	if !interactive {
		return runHeadless(ctx, setup)
	}
	return runInteractive(ctx, setup)
}

func runInteractive(ctx context.Context, setup *scanSetup) error {
	loop := eventloop.New(eventloop.Config{
		Walker:        setup.walker,
		Sizer:         setup.sizer,
		Deleter:       setup.deleter,
		SortKey:       setup.sortKey,
		ShowProtected: viper.GetBool("show-protected"),
		TickInterval:  time.Duration(setup.cfg.TickIntervalMS) * time.Millisecond,
	})
	return tui.Run(ctx, loop)
}
