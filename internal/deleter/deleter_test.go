package deleter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cachesweep/cachesweep/internal/model"
)

func TestDeleteRemovesDirectoryRecursively(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(filepath.Join(target, "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "pkg", "index.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(false)
	if err := d.Delete(context.Background(), model.Result{Path: target}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed, stat err: %v", target, err)
	}
}

func TestDeleteDryRunLeavesFilesystemUntouched(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	d := New(true)
	if err := d.Delete(context.Background(), model.Result{Path: target}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected dry-run to leave %s in place, got stat err: %v", target, err)
	}
}

func TestDeleteRefusesSensitivePathEvenUnderDryRun(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, ".config", "app")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	d := New(true)
	err := d.Delete(context.Background(), model.Result{Path: target, Sensitive: true})
	if !errors.Is(err, ErrSensitive) {
		t.Fatalf("expected ErrSensitive, got %v", err)
	}
	if _, statErr := os.Stat(target); statErr != nil {
		t.Fatalf("sensitive path should be untouched: %v", statErr)
	}
}

func TestDeleteObservesCancellation(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(false)
	err := d.Delete(ctx, model.Result{Path: target})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(target); statErr != nil {
		t.Fatal("cancelled delete should not have removed the directory")
	}
}
