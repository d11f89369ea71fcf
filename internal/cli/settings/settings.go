package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/countdown"
	"github.com/julianstephens/blossom/internal/models"
	"github.com/julianstephens/blossom/internal/storage"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Month      *int    `help:"Target month (1-12)."`
	Day        *int    `help:"Target day of month."`
	Hour       *int    `help:"Target hour (0-23)."`
	Minute     *int    `help:"Target minute (0-59)."`
	Model      *string `help:"Gemini model used for insights."`
	ShowPetals *bool   `help:"Animate falling petals in the TUI."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := storage.GetSettings(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(ctx, settings)
		return nil
	}

	updated := false
	if c.Month != nil {
		settings.TargetMonth = time.Month(*c.Month)
		updated = true
	}
	if c.Day != nil {
		settings.TargetDay = *c.Day
		updated = true
	}
	if c.Hour != nil {
		settings.TargetHour = *c.Hour
		updated = true
	}
	if c.Minute != nil {
		settings.TargetMinute = *c.Minute
		updated = true
	}
	if c.Model != nil {
		settings.Model = *c.Model
		updated = true
	}
	if c.ShowPetals != nil {
		settings.ShowPetals = *c.ShowPetals
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := targetOf(settings).Validate(); err != nil {
		return fmt.Errorf("invalid countdown target: %w", err)
	}
	if err := storage.SaveSettings(ctx.Store, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

func targetOf(s models.Settings) countdown.Target {
	return countdown.Target{Month: s.TargetMonth, Day: s.TargetDay, Hour: s.TargetHour, Minute: s.TargetMinute}
}

func printSettings(ctx *cli.Context, s models.Settings) {
	target := targetOf(s)
	ctx.Println("Current Settings:")
	ctx.Printf("  Target:       %s %02d:%02d\n", target.Label(), s.TargetHour, s.TargetMinute)
	ctx.Printf("  Model:        %s\n", s.Model)
	ctx.Printf("  Show Petals:  %v\n", s.ShowPetals)
}
