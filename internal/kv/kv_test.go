package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/circles/internal/kv/postgres"
	"github.com/julianstephens/circles/internal/kv/sqlite"
)

// exercise runs the common contract against an initialized provider.
func exercise(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "@circles/missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := p.Set(ctx, "@circles/b", "2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := p.Set(ctx, "@circles/a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := p.Set(ctx, "@circles/a", "one"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, ok, err := p.Get(ctx, "@circles/a")
	if err != nil || !ok || got != "one" {
		t.Errorf("Get() = %q, %v, %v; want one", got, ok, err)
	}

	keys, err := p.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "@circles/a" || keys[1] != "@circles/b" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	exercise(t, s)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if err := s.Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "circles.json")
	s := NewFileStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	exercise(t, s)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}

	// a fresh store sees the same entries
	reopened := NewFileStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok, err := reopened.Get(context.Background(), "@circles/b")
	if err != nil || !ok || got != "2" {
		t.Errorf("Get() after reload = %q, %v, %v", got, ok, err)
	}

	// Init on an existing file keeps its contents
	again := NewFileStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("Init() on existing file error = %v", err)
	}
	if keys, _ := again.Keys(context.Background()); len(keys) != 2 {
		t.Errorf("Init() on existing file dropped entries: %v", keys)
	}
}

func TestFileStoreNotLoaded(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "circles.json"))
	if err := s.Load(); err == nil {
		t.Error("Load() of missing file should fail")
	}
	if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Get() error = %v, want ErrNotLoaded", err)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circles.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() of malformed file should fail")
	}
}

func TestFileStoreSeesOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circles.json")
	ctx := context.Background()

	first := NewFileStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	second := NewFileStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := second.Set(ctx, "@circles/behaviors", "[1]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := first.Get(ctx, "@circles/behaviors")
	if err != nil || !ok || got != "[1]" {
		t.Errorf("Get() after another writer = %q, %v, %v, want [1]", got, ok, err)
	}

	// a write from the first store keeps the second store's entry
	if err := first.Set(ctx, "@circles/events", "[2]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	keys, err := second.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want both writers' entries", keys)
	}
	if got, _, _ := second.Get(ctx, "@circles/behaviors"); got != "[1]" {
		t.Errorf("Get() = %q, entry was overwritten", got)
	}
}

func TestFileStoreWriteFailureKeepsPreviousValue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ro")
	path := filepath.Join(dir, "circles.json")
	s := NewFileStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0700)
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	if err := s.Set(ctx, "k", "v2"); err == nil {
		t.Fatal("Set() into read-only directory should fail")
	}
	got, _, _ := s.Get(ctx, "k")
	if got != "v1" {
		t.Errorf("Get() after failed Set = %q, want v1", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		config  string
		check   func(Provider) bool
		wantErr error
	}{
		{name: "memory", config: ":memory:", check: func(p Provider) bool { _, ok := p.(*MemoryStore); return ok }},
		{name: "json file", config: filepath.Join(dir, "c.JSON"), check: func(p Provider) bool { _, ok := p.(*FileStore); return ok }},
		{name: "sqlite file", config: filepath.Join(dir, "c.db"), check: func(p Provider) bool { _, ok := p.(*sqlite.Store); return ok }},
		{name: "postgres", config: "postgres://u@localhost/circles", check: func(p Provider) bool { _, ok := p.(*postgres.Store); return ok }},
		{name: "postgres with password", config: "postgres://u:pw@localhost/circles", wantErr: postgres.ErrEmbeddedCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !tt.check(p) {
				t.Errorf("Open(%q) returned %T", tt.config, p)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	for k, v := range map[string]string{"@circles/a": "1", "@circles/b": "2", "@circles/c": "3"} {
		if err := src.Set(ctx, k, v); err != nil {
			t.Fatal(err)
		}
	}

	dst := NewFileStore(filepath.Join(t.TempDir(), "copy.json"))
	if err := dst.Init(); err != nil {
		t.Fatal(err)
	}

	n, err := Copy(ctx, src, dst)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Copy() copied %d keys, want 3", n)
	}
	got, ok, _ := dst.Get(ctx, "@circles/c")
	if !ok || got != "3" {
		t.Errorf("dst Get() = %q, %v", got, ok)
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestCopyPropagatesWriteError(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	_ = src.Set(ctx, "k", "v")

	if _, err := Copy(ctx, src, failingStore{NewMemoryStore()}); err == nil {
		t.Error("Copy() should report destination failures")
	}
}
