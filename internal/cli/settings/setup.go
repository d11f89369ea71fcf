package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/keyring"
	"github.com/julianstephens/blossom/internal/models"
	"github.com/julianstephens/blossom/internal/storage"
)

// SetupForm holds the raw values edited in the setup form
type SetupForm struct {
	Month      string
	Day        string
	Time       string // HH:MM
	Model      string
	ShowPetals bool
	APIKey     string
}

// runForm shows the interactive form; replaced in tests
var runForm = func(f *SetupForm) error {
	months := make([]huh.Option[string], 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, huh.NewOption(m.String(), strconv.Itoa(int(m))))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target month").
				Options(months...).
				Value(&f.Month),
			huh.NewInput().
				Title("Target day").
				Validate(validateInt(1, 31)).
				Value(&f.Day),
			huh.NewInput().
				Title("Target time (HH:MM)").
				Validate(validateClock).
				Value(&f.Time),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini model").
				Value(&f.Model),
			huh.NewInput().
				Title("Gemini API key").
				Description("Stored in the OS keyring. Leave empty to keep the current key.").
				EchoMode(huh.EchoModePassword).
				Value(&f.APIKey),
			huh.NewConfirm().
				Title("Show falling petals?").
				Value(&f.ShowPetals),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}
	return nil
}

type SetupCmd struct{}

func (c *SetupCmd) Run(ctx *cli.Context) error {
	current, err := storage.GetSettings(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	form := &SetupForm{
		Month:      strconv.Itoa(int(current.TargetMonth)),
		Day:        strconv.Itoa(current.TargetDay),
		Time:       fmt.Sprintf("%02d:%02d", current.TargetHour, current.TargetMinute),
		Model:      current.Model,
		ShowPetals: current.ShowPetals,
	}
	if err := runForm(form); err != nil {
		return err
	}

	settings, err := form.Settings()
	if err != nil {
		return err
	}
	if err := targetOf(settings).Validate(); err != nil {
		return fmt.Errorf("invalid countdown target: %w", err)
	}
	if err := storage.SaveSettings(ctx.Store, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if key := strings.TrimSpace(form.APIKey); key != "" {
		if err := keyring.Set(keyring.SecretAPIKey, key); err != nil {
			return err
		}
		ctx.Println("✓ API key stored in OS keyring")
	}

	ctx.Printf("✓ Counting down to %s\n", targetOf(settings).Label())
	return nil
}

// Settings converts the form values, reporting the first invalid field
func (f *SetupForm) Settings() (models.Settings, error) {
	month, err := strconv.Atoi(f.Month)
	if err != nil {
		return models.Settings{}, fmt.Errorf("invalid month %q", f.Month)
	}
	day, err := strconv.Atoi(strings.TrimSpace(f.Day))
	if err != nil {
		return models.Settings{}, fmt.Errorf("invalid day %q", f.Day)
	}
	hour, minute, err := parseClock(f.Time)
	if err != nil {
		return models.Settings{}, err
	}

	model := strings.TrimSpace(f.Model)
	if model == "" {
		model = storage.DefaultSettings().Model
	}

	return models.Settings{
		TargetMonth:  time.Month(month),
		TargetDay:    day,
		TargetHour:   hour,
		TargetMinute: minute,
		Model:        model,
		ShowPetals:   f.ShowPetals,
	}, nil
}

func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func validateClock(s string) error {
	_, _, err := parseClock(s)
	return err
}

func validateInt(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("must be a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}
