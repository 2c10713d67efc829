package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type fakeReloader struct{ calls chan struct{} }

func (f *fakeReloader) Reload(context.Context) error {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return nil
}

func waitForReload(t *testing.T, f *fakeReloader) {
	t.Helper()
	select {
	case <-f.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("Reload() was not called")
	}
}

func TestReloadsAfterWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "circles.db")
	if err := os.WriteFile(path, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}

	target := &fakeReloader{calls: make(chan struct{}, 8)}
	w := New(path, target, 20*time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v2"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	waitForReload(t, target)

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if w.Reloads() < 1 {
		t.Errorf("Reloads() = %d", w.Reloads())
	}
}

func TestIgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "circles.db")
	target := &fakeReloader{calls: make(chan struct{}, 8)}
	w := New(path, target, 10*time.Millisecond)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-target.calls:
		t.Error("Reload() called for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path+"-wal", []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	waitForReload(t, target)

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := New(filepath.Join(t.TempDir(), "circles.db"), &fakeReloader{calls: make(chan struct{}, 1)}, time.Millisecond)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStartMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "circles.db"), &fakeReloader{}, time.Millisecond)
	if err := w.Start(context.Background()); err == nil {
		w.Close()
		t.Error("Start() should fail when the directory does not exist")
	}
}
