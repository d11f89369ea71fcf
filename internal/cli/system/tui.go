package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/tui"
)

type TuiCmd struct {
	NoPetals bool `help:"Start with the falling petals turned off."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(appCtx, ctx.NewFetcher(), tui.Options{
		Target:     ctx.Target(),
		ShowPetals: ctx.Config.ShowPetals && !c.NoPetals,
		Now:        ctx.Now,
	})

	logger.Debug("Starting TUI", "target", ctx.Target().Label(), "model", ctx.Config.Model)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
