package keyring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/blossom/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for secret names blossom does not manage
	ErrUnknownSecret = errors.New("unknown secret name")
)

// Secret names accepted on the command line, mapped to keyring users
const (
	SecretAPIKey           = "api-key"
	SecretConnectionString = "connection-string"
)

var secretUsers = map[string]string{
	SecretAPIKey:           constants.DefaultKeyringUser,
	SecretConnectionString: constants.PostgresKeyringUser,
}

// SecretNames lists the managed secrets in stable order
func SecretNames() []string {
	names := make([]string, 0, len(secretUsers))
	for name := range secretUsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func userFor(name string) (string, error) {
	user, ok := secretUsers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSecret, name)
	}
	return user, nil
}

// Get retrieves a managed secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(name string) (string, error) {
	user, err := userFor(name)
	if err != nil {
		return "", err
	}
	value, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a managed secret in the OS keyring.
func Set(name, value string) error {
	user, err := userFor(name)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a managed secret from the OS keyring.
func Delete(name string) error {
	user, err := userFor(name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// GetAPIKey retrieves the Gemini API key.
func GetAPIKey() (string, error) {
	return Get(SecretAPIKey)
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(SecretConnectionString)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered, it just has nothing for us
	return err == nil || err == keyring.ErrNotFound
}
