package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/circles/internal/kv/sqlite"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// setupTestDB creates an initialized circles database holding one entry.
func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "circles.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.Set(context.Background(), "@circles/behaviors", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return dbPath
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer store.Close()
	v, ok, err := store.Get(context.Background(), "@circles/behaviors")
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	return v
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, `["original"]`)
	c := &clock{t: time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(c.now))

	info, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, want := info.Name(), "circles-20240601-093015.db"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if !info.CreatedAt.Equal(c.t) {
		t.Errorf("CreatedAt = %v, want %v", info.CreatedAt, c.t)
	}
	if info.Size == 0 {
		t.Error("Size = 0")
	}
	if got := readValue(t, info.Path); got != `["original"]` {
		t.Errorf("backup holds %q", got)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", info.Path, mgr.Dir())
	}
}

func TestCreateUniqueNames(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)
	c := &clock{t: time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(c.now))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		info, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[info.Name()] {
			t.Fatalf("duplicate backup name %s", info.Name())
		}
		seen[info.Name()] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Errorf("List() returned %d backups, want 3", len(backups))
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(context.Background()); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() error = %v, want ErrNoDatabase", err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)
	c := &clock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(c.now), WithRetention(3))

	var newest Info
	for i := 0; i < 5; i++ {
		info, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		newest = info
		c.t = c.t.AddDate(0, 0, 1)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("List() returned %d backups after rotation, want 3", len(backups))
	}
	if backups[0].Path != newest.Path {
		t.Errorf("newest backup = %s, want %s", backups[0].Name(), newest.Name())
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].CreatedAt.After(backups[i-1].CreatedAt) {
			t.Errorf("List() not newest first: %v", backups)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "circles-yesterday.db", "circles-20240101-120000-x.db", "other-20240101-120000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "circles-20240101-120000-2.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 || backups[0].Name() != "circles-20240101-120000-2.db" {
		t.Errorf("List() = %v", backups)
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "circles.db"))
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %v, %v; want empty", backups, err)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, `["before"]`)
	c := &clock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(c.now))

	saved, err := mgr.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "@circles/behaviors", `["after"]`); err != nil {
		t.Fatal(err)
	}
	store.Close()

	c.t = c.t.Add(time.Hour)
	safety, err := mgr.Restore(ctx, mgr.Resolve(saved.Name()))
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := readValue(t, dbPath); got != `["before"]` {
		t.Errorf("restored database holds %q", got)
	}
	if safety.Path == "" {
		t.Fatal("Restore() did not back up the current database")
	}
	if got := readValue(t, safety.Path); got != `["after"]` {
		t.Errorf("safety backup holds %q", got)
	}
}

func TestRestoreRejectsInvalidFiles(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, `["keep"]`)
	mgr := NewManager(dbPath)

	garbage := filepath.Join(t.TempDir(), "circles-20240101-000000.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(ctx, garbage); err == nil {
		t.Error("Restore() accepted a corrupted backup")
	}
	if _, err := mgr.Restore(ctx, filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Restore() accepted a missing backup")
	}
	if got := readValue(t, dbPath); got != `["keep"]` {
		t.Errorf("database changed to %q after a failed restore", got)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/circles.db")
	if got, want := mgr.Resolve("circles-20240101-000000.db"), filepath.Join("/data", "backups", "circles-20240101-000000.db"); got != want {
		t.Errorf("Resolve(name) = %q, want %q", got, want)
	}
	if got := mgr.Resolve("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("Resolve(path) = %q", got)
	}
}
