package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/blossom/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
	// Session tags every line written by this process
	Session string
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Console mirrors debug output to stderr. The TUI turns this off so log
	// lines don't tear the alternate screen.
	Console bool
	// Store is the resolved store location; file stores get a log of the same name
	Store string
}

// FileName returns the log file name for a store location.
// ~/.config/blossom/work.db logs to work.log; connection strings use the app name.
func FileName(store string) string {
	fallback := constants.AppName + ".log"
	store = strings.TrimSpace(store)
	if store == "" || store == "keyring" || strings.Contains(store, "://") || strings.HasPrefix(store, "host=") {
		return fallback
	}
	base := filepath.Base(store)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return fallback
	}
	return stem + ".log"
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName(cfg.Store)),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	var writer io.Writer = fileWriter
	if cfg.Debug && cfg.Console {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Session = uuid.NewString()[:8]
	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	}).With("session", Session)

	return nil
}

// WithRequest returns a logger that tags lines with one insight request ID.
// Before Init it discards everything.
func WithRequest(id string) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With("request_id", id)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
