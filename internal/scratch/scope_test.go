package scratch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reel/internal/logging"
	"reel/internal/scratch"
)

func TestScopeCloseRemovesEverything(t *testing.T) {
	root := t.TempDir()
	scope, err := scratch.NewScope(root, "user-7", logging.NewNop())
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}

	raw := scope.Path("audio.m4a")
	mp3 := scope.Path("audio.mp3")
	for _, path := range []string{raw, mp3} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		scope.Register(path)
	}

	scope.Close()

	if _, err := os.Stat(scope.Dir()); !os.IsNotExist(err) {
		t.Fatalf("expected scope directory to be removed, stat err=%v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scratch root, found %d entries", len(entries))
	}
}

func TestScopeCloseIsIdempotent(t *testing.T) {
	scope, err := scratch.NewScope(t.TempDir(), "user-1", nil)
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	scope.Close()
	scope.Close()
}

func TestScopeRemoveDeletesSinglePath(t *testing.T) {
	scope, err := scratch.NewScope(t.TempDir(), "user-2", logging.NewNop())
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	defer scope.Close()

	raw := scope.Path("raw.m4a")
	if err := os.WriteFile(raw, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	scope.Register(raw)
	scope.Remove(raw)

	if _, err := os.Stat(raw); !os.IsNotExist(err) {
		t.Fatalf("expected path removed, stat err=%v", err)
	}
}

func TestScopeRemoveToleratesMissingFile(t *testing.T) {
	scope, err := scratch.NewScope(t.TempDir(), "user-3", logging.NewNop())
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	defer scope.Close()
	scope.Remove(scope.Path("never-created.tmp"))
}

func TestScopesArePartitionedByKey(t *testing.T) {
	root := t.TempDir()
	first, err := scratch.NewScope(root, "user-1", nil)
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	second, err := scratch.NewScope(root, "user-2", nil)
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	if first.Dir() == second.Dir() {
		t.Fatal("expected distinct directories per key")
	}

	file := second.Path("video.mp4")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	second.Register(file)

	first.Close()
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("closing one scope must not touch another: %v", err)
	}
	second.Close()
}

func TestCleanStale(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "user-9")
	fresh := filepath.Join(root, "user-10")
	for _, dir := range []string{stale, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result := scratch.CleanStale(root, 24*time.Hour, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("expected only stale dir removed, got %v", result.Removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh dir should survive: %v", err)
	}
}

func TestCleanStaleMissingRoot(t *testing.T) {
	result := scratch.CleanStale(filepath.Join(t.TempDir(), "missing"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected no-op on missing root, got %+v", result)
	}
}
