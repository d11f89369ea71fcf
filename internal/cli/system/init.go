package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/blossom/internal/backup"
	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete the existing store before initializing. SQLite stores are backed up first."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force && !storage.IsPostgres(path) {
		if _, err := os.Stat(path); err == nil {
			// Close first to release the file lock
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if !storage.IsJSON(path) {
				snapshot, err := backup.NewManager(path).CreateBackup()
				if err != nil {
					return fmt.Errorf("failed to back up existing store: %w", err)
				}
				ctx.Printf("Backed up existing store to: %s\n", snapshot)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized blossom storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
