package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/blossom/internal/gemini"
	"github.com/julianstephens/blossom/internal/keyring"
	"github.com/julianstephens/blossom/internal/logger"
	"github.com/julianstephens/blossom/internal/storage"
)

// hints maps well-known failures to the command that fixes them
var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "run 'blossom init' to create the cache store"},
	{gemini.ErrNoAPIKey, "set BLOSSOM_API_KEY or run 'blossom keyring set api-key'"},
	{keyring.ErrKeyringUnavailable, "export the secret as an environment variable instead"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\n       Hint: %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a remediation hint for err, or "" when none applies
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
