package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/blossom/internal/cli"
	"github.com/julianstephens/blossom/internal/cli/backups"
	"github.com/julianstephens/blossom/internal/cli/insights"
	"github.com/julianstephens/blossom/internal/cli/settings"
	"github.com/julianstephens/blossom/internal/cli/system"
	"github.com/julianstephens/blossom/internal/config"
	"github.com/julianstephens/blossom/internal/constants"
	"github.com/julianstephens/blossom/internal/errors"
	"github.com/julianstephens/blossom/internal/keyring"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/storage"
	"github.com/julianstephens/blossom/internal/storage/postgres"
	"github.com/julianstephens/blossom/internal/storage/sqlite"
)

// keyringStore selects the PostgreSQL connection string saved in the OS keyring
const keyringStore = "keyring"

var CLI struct {
	Version kong.VersionFlag
	Store   string        `help:"Store path (.db for SQLite, .json for a JSON file), PostgreSQL connection string, or 'keyring' to use the stored connection string. Passwords must NOT be embedded in connection strings." placeholder:"~/.config/blossom/blossom.db"`
	Model   string        `help:"Gemini model used for insights."`
	APIKey  string        `name:"api-key" help:"Gemini API key. Prefer BLOSSOM_API_KEY or the OS keyring."`
	BaseURL string        `name:"base-url" help:"Gemini API base URL."`
	Timeout time.Duration `help:"Timeout for a single insight request."`
	Debug   bool          `help:"Enable debug logging."`

	Tui       system.TuiCmd       `cmd:"" help:"Launch the countdown TUI." default:"1"`
	Countdown cli.CountdownCmd    `cmd:"" help:"Print the time left until the target."`
	Insight   insights.InsightCmd `cmd:"" help:"Fetch and print today's insight."`
	Cache     struct {
		Show  insights.CacheShowCmd  `cmd:"" help:"Show the cached insight." default:"1"`
		Clear insights.CacheClearCmd `cmd:"" help:"Delete the cached insight."`
	} `cmd:"" help:"Inspect the daily insight cache."`
	Init    system.InitCmd    `cmd:"" help:"Initialize blossom storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show which secrets are stored." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Setup    settings.SetupCmd    `cmd:"" help:"Interactively configure the countdown and Gemini."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite store backups."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send the countdown to the tray app (used internally)."`
}

// storeOptional lists commands that still work before 'blossom init'
var storeOptional = map[string]bool{
	"countdown": true,
	"keyring":   true,
	"notify":    true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Countdown to 04.24 with a daily spring insight"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := strings.Fields(ctx.Command())[0]

	if err := config.LoadEnvFiles(); err != nil {
		errors.Fatal(err)
	}
	env, err := config.ParseEnv()
	if err != nil {
		errors.Fatal(err)
	}

	flags := config.Flags{
		Store:   CLI.Store,
		Model:   CLI.Model,
		APIKey:  CLI.APIKey,
		BaseURL: CLI.BaseURL,
		Timeout: CLI.Timeout,
		Debug:   CLI.Debug,
	}

	storePath := config.StorePath(flags, env)
	store, logDir, err := openStore(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Format(err))
		if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
			printCredentialHelp()
		}
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Debug:     flags.Debug || env.Debug,
		ConfigDir: logDir,
		Console:   command != "tui",
		Store:     storePath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer store.Close()

	stored := storage.DefaultSettings()
	if command != "init" {
		if err := store.Load(); err != nil {
			if !storeOptional[command] {
				errors.Fatal(err)
			}
			logger.Debug("Store unavailable, using default settings", "command", command, "error", err)
		} else if stored, err = storage.GetSettings(store); err != nil {
			errors.Fatal(fmt.Errorf("failed to read settings: %w", err))
		}
	}

	cfg := config.Resolve(flags, env, stored)
	cfg.StorePath = store.GetConfigPath()
	if err := cfg.ResolveAPIKey(); err != nil {
		logger.Warn("Failed to read API key from keyring", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Configuration resolved", "command", command, "store", storeLabel(cfg.StorePath), "model", cfg.Model)

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
	}
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// openStore picks the backend from the store path and returns the
// directory that holds the log files
func openStore(path string) (storage.Provider, string, error) {
	defaultDir, err := storage.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	if path == keyringStore {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return postgres.New(connStr), defaultDir, nil
	}

	if storage.IsPostgres(path) || strings.Contains(path, "host=") {
		if _, err := postgres.ValidateConnString(path); err != nil {
			return nil, "", err
		}
		return postgres.New(path), defaultDir, nil
	}

	expanded, err := storage.ExpandPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to expand store path: %w", err)
	}
	if storage.IsJSON(expanded) {
		return storage.NewJSONStore(expanded), filepath.Dir(expanded), nil
	}
	return sqlite.NewStore(expanded), filepath.Dir(expanded), nil
}

func storeLabel(path string) string {
	if storage.IsPostgres(path) || strings.Contains(path, "host=") {
		return "postgres"
	}
	return path
}

func printCredentialHelp() {
	fmt.Fprintf(os.Stderr, "       Use one of these secure alternatives:\n")
	fmt.Fprintf(os.Stderr, "       1. OS keyring:    blossom keyring set connection-string, then --store keyring\n")
	fmt.Fprintf(os.Stderr, "       2. Environment:   export PGPASSWORD and pass the connection string without a password\n")
	fmt.Fprintf(os.Stderr, "       3. .pgpass file:  \"postgresql://user@host:5432/blossom\"\n")
}
