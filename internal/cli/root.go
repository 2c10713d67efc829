package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/circles/internal/backup"
	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/keyring"
	"github.com/julianstephens/circles/internal/kv"
	"github.com/julianstephens/circles/internal/kv/sqlite"
	"github.com/julianstephens/circles/internal/logger"
)

// Context is shared by every command. main builds exactly one.
type Context struct {
	Ctx      context.Context
	Backend  kv.Provider
	Store    *datastore.Store
	Location *time.Location
	Vault    keyring.Vault
	In       io.Reader
	Out      io.Writer
	Watch    bool
}

// NewContext wires a data store onto backend.
func NewContext(ctx context.Context, backend kv.Provider, loc *time.Location, opts ...datastore.Option) *Context {
	if loc == nil {
		loc = time.Local
	}
	opts = append([]datastore.Option{datastore.WithLocation(loc)}, opts...)
	return &Context{
		Ctx:      ctx,
		Backend:  backend,
		Store:    datastore.New(backend, opts...),
		Location: loc,
		Vault:    keyring.Default,
		In:       os.Stdin,
		Out:      os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In. Anything but y or yes is no.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// Load opens the backend and loads the data store.
func (c *Context) Load() error {
	if err := c.Backend.Load(); err != nil {
		return err
	}
	return c.Store.Initialize(c.Ctx)
}

// Flush makes sure every change reached the backend.
func (c *Context) Flush() error {
	if err := c.Store.Flush(c.Ctx); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}

// BackupManager returns a manager for file-backed sqlite storage, or nil for
// other backends.
func (c *Context) BackupManager() *backup.Manager {
	if s, ok := c.Backend.(*sqlite.Store); ok {
		return backup.NewManager(s.GetConfigPath())
	}
	return nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.Create(c.Ctx); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
