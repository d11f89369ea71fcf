package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/insight"
	"github.com/julianstephens/blossom/internal/keyring"
	"github.com/julianstephens/blossom/internal/storage"
)

type DoctorCmd struct{}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusFail
	statusWarn
	statusSkip
)

type checkResult struct {
	name   string
	status checkStatus
	detail string
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	results := runChecks(ctx)
	hasError := false
	for _, r := range results {
		switch r.status {
		case statusOK:
			ctx.Printf("✓ %s: OK\n", r.name)
		case statusFail:
			ctx.Printf("❌ %s: FAIL\n", r.name)
			ctx.Printf("   Error: %s\n", r.detail)
			hasError = true
		case statusWarn:
			ctx.Printf("⚠ %s: WARNING\n", r.name)
			ctx.Printf("   %s\n", r.detail)
		case statusSkip:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", r.name, r.detail)
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func runChecks(ctx *cli.Context) []checkResult {
	var results []checkResult
	add := func(name string, err error) {
		if err != nil {
			results = append(results, checkResult{name: name, status: statusFail, detail: err.Error()})
			return
		}
		results = append(results, checkResult{name: name, status: statusOK})
	}

	storeErr := checkStoreReachable(ctx)
	add("Store reachable", storeErr)

	if storeErr == nil {
		add("Schema version", checkSchemaVersion(ctx))
		add("Migrations complete", checkMigrationsComplete(ctx))
	} else {
		results = append(results,
			checkResult{name: "Schema version", status: statusSkip, detail: "store not reachable"},
			checkResult{name: "Migrations complete", status: statusSkip, detail: "store not reachable"},
		)
	}

	add("Countdown target", checkTarget(ctx))
	add("Clock/timezone", checkClockTimezone(ctx.Clock()))

	if msg := checkAPIKey(ctx); msg != "" {
		results = append(results, checkResult{name: "Gemini API key", status: statusWarn, detail: msg})
	} else {
		results = append(results, checkResult{name: "Gemini API key", status: statusOK})
	}

	if storeErr == nil {
		if msg := checkInsightCache(ctx); msg != "" {
			results = append(results, checkResult{name: "Insight cache", status: statusWarn, detail: msg})
		} else {
			results = append(results, checkResult{name: "Insight cache", status: statusOK})
		}
	} else {
		results = append(results, checkResult{name: "Insight cache", status: statusSkip, detail: "store not reachable"})
	}

	return results
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON stores have no schema
		return nil
	}
	return migrator.ValidateSchema()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d pending migration(s), run 'blossom migrate'", pending)
	}
	return nil
}

func checkTarget(ctx *cli.Context) error {
	return ctx.Target().Validate()
}

func checkClockTimezone(now time.Time) error {
	if now.Location() == nil {
		return fmt.Errorf("no local timezone configured")
	}
	if now.Year() < 2024 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(now.Location().String()); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", now.Location(), err)
	}
	return nil
}

// checkAPIKey returns a warning, or "" when a key is configured
func checkAPIKey(ctx *cli.Context) string {
	if ctx.Config.APIKey != "" {
		return ""
	}
	if !keyring.IsAvailable() {
		return "no API key configured and the OS keyring is unavailable; insights will use the fallback"
	}
	return "no API key configured; insights will use the fallback (set BLOSSOM_API_KEY or run 'blossom keyring set api-key')"
}

// checkInsightCache returns a warning when the cache entry is unreadable
func checkInsightCache(ctx *cli.Context) string {
	entry, ok, err := insight.NewCache(ctx.Store).Entry()
	if err != nil {
		return err.Error()
	}
	if ok && !entry.Data.IsComplete() {
		return "cached insight is missing fields and will be refetched"
	}
	return ""
}
