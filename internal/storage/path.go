package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// IsPostgres reports whether path is a PostgreSQL connection URL
func IsPostgres(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

// IsJSON reports whether path names a JSON file store
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
