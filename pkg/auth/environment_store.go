package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore on top of REELDL_*
// environment variables. Read-only; explicit environment configuration
// always wins over stored accounts.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables. The
// environment carries no username, so callers get "default" unless
// they name one themselves.
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionID := os.Getenv("REELDL_SESSION_ID")
	csrfToken := os.Getenv("REELDL_CSRF_TOKEN")
	userAgent := os.Getenv("REELDL_USER_AGENT")

	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	if username == "" {
		username = "default"
	}

	return &Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account when environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials are present
func (e *EnvironmentStore) Exists(username string) bool {
	return os.Getenv("REELDL_SESSION_ID") != "" && os.Getenv("REELDL_CSRF_TOKEN") != ""
}
