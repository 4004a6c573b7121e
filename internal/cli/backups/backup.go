package backups

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.Printf("Created backup: %s\n", path)
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
		return err
	}
	if len(backups) == 0 {
		ctx.Println("No backups found.")
		return nil
	}
	ctx.Printf("Backups in %s:\n", mgr.Dir())
	for i, b := range backups {
		ctx.Printf("  %2d. %s  %s  %s\n", i+1, filepath.Base(b.Path),
			b.Timestamp.Format("2006-01-02 15:04:05"), cli.MutedStyle.Render(fmt.Sprintf("%.1f KB", float64(b.Size)/1024)))
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore (path or file name in the backup directory)."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path := c.Path
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database before restore: %w", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if safety != "" {
		ctx.Printf("Created backup of current database: %s\n", filepath.Base(safety))
	}
	ctx.Printf("Restored database from %s\n", filepath.Base(path))
	return nil
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if ctx.Kind != storage.KindSQLite {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}
