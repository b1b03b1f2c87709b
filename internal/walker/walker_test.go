package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachesweep/cachesweep/internal/sensitivity"
	"github.com/cachesweep/cachesweep/internal/target"
)

func mustMatcher(t *testing.T) *target.Matcher {
	t.Helper()
	m, err := target.New(
		map[string]string{"node_modules": "node", "target": "rust"},
		nil,
		[]string{".git"},
		false,
	)
	require.NoError(t, err)
	return m
}

func drain(t *testing.T, ctx context.Context, w *Walker) ([]string, error) {
	t.Helper()
	batches, errs := w.Run(ctx)

	var paths []string
	for batch := range batches {
		for _, r := range batch {
			paths = append(paths, r.Path)
		}
	}
	sort.Strings(paths)
	return paths, <-errs
}

func TestWalkFindsTargetsAndPrunesMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "node_modules", "nested", "node_modules"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "target"), 0o755))

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(root, "a", "node_modules"), paths[0])
	assert.Equal(t, filepath.Join(root, "b", "target"), paths[1])
}

func TestWalkDoesNotDescendIntoExcludedDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "node_modules"), 0o755))

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestWalkReportsErrorForMissingRoot(t *testing.T) {
	w := New(Options{
		Root:       filepath.Join(t.TempDir(), "does-not-exist"),
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	_, err := drain(t, context.Background(), w)
	assert.Error(t, err)
}

func TestWalkEmitsRootItselfWhenRootIsATarget(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "node_modules")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested", "node_modules"), 0o755))

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Equal(t, root, paths[0])
}

func TestWalkRespectsGitignoreWhenEnabled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "node_modules"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app", "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor/\n"), 0o644))

	w := New(Options{
		Root:          root,
		Matcher:       mustMatcher(t),
		Classifier:    sensitivity.Default(nil),
		RespectIgnore: true,
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(root, "app", "node_modules"), paths[0])
}

func TestWalkIgnoresGitignoreWhenDisabled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor/\n"), 0o644))

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)

	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(root, "vendor", "node_modules"), paths[0])
}

func TestWalkDoesNotFollowUnfollowedSymlinkToTarget(t *testing.T) {
	root := t.TempDir()
	real := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(real, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(real, "node_modules"), filepath.Join(root, "node_modules")))

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	paths, err := drain(t, context.Background(), w)
	require.NoError(t, err)
	assert.Empty(t, paths, "a symlink to a target, with FollowLinks false, must be neither emitted nor descended into")
}

func TestWalkStopsPromptlyOnCancellation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", string(rune('a'+i))), 0o755))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(Options{
		Root:       root,
		Matcher:    mustMatcher(t),
		Classifier: sensitivity.Default(nil),
	})

	done := make(chan struct{})
	go func() {
		batches, errs := w.Run(ctx)
		for range batches {
		}
		<-errs
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("walk did not stop after cancellation")
	}
}
