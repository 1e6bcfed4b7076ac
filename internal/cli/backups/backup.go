package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tachoplan/internal/backup"
	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/logger"
)

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsLocal() {
		return nil, fmt.Errorf("backups are only supported for local SQLite storage")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), float64(b.Size)/1024.0)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.BackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	// a file in the working directory wins over one in the backup directory
	backupPath := c.BackupFile
	if _, err := os.Stat(backupPath); err == nil {
		if backupPath, err = filepath.Abs(backupPath); err != nil {
			return fmt.Errorf("failed to resolve backup path: %w", err)
		}
	} else {
		backupPath = mgr.Resolve(c.BackupFile)
		if _, err := os.Stat(backupPath); err != nil {
			return fmt.Errorf("backup file not found: tried current directory and %s", mgr.BackupDir())
		}
	}

	if !c.Yes {
		ctx.Println("WARNING: This will replace your current database with the backup.")
		ctx.Printf("Stop any other %s processes (including the TUI and server) first.\n", constants.AppName)
		ctx.Println("A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database connection", "err", err)
	}

	saved, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if saved != "" {
		ctx.Printf("Created backup of current database: %s\n", filepath.Base(saved))
	}
	ctx.Println("✓ Database restored successfully!")
	return nil
}
