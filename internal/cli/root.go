package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/tachoplan/internal/backup"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/storage"
	"github.com/julianstephens/tachoplan/internal/storage/sqlite"
)

type Context struct {
	Store storage.Provider

	// In and Out default to stdin and stdout
	In  io.Reader
	Out io.Writer
}

// Stdout returns the writer command output goes to
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted command output
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

// Println writes a line of command output
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)

	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Planner builds a planner from the stored settings, using the store as the
// reduced-rest ledger.
func (c *Context) Planner() (*planner.Planner, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return planner.New(settings, c.Store), nil
}

// IsLocal reports whether the store is a SQLite file that can be backed up
func (c *Context) IsLocal() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a local store, logging failures
func (c *Context) PerformAutomaticBackup() {
	if !c.IsLocal() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
