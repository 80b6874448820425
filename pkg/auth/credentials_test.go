package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(username string) *Account {
	return &Account{
		Username:     username,
		SessionID:    "1234567890%3Aabcdefghij%3A26",
		CSRFToken:    "YTQHujAgMhyveLvvuwCfw9CPI8ROAHoy",
		UserAgent:    "TestAgent/1.0",
		LastModified: time.Now(),
	}
}

func newTestEncryptedStore(t *testing.T) *EncryptedFileStore {
	t.Helper()
	t.Setenv("REELDL_PASSPHRASE", "test-passphrase")

	store, err := NewEncryptedFileStore(filepath.Join(t.TempDir(), "credentials.enc"))
	require.NoError(t, err)
	return store
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	store := newTestEncryptedStore(t)

	account := testAccount("alice")
	require.NoError(t, store.Store(account))

	got, err := store.Retrieve("alice")
	require.NoError(t, err)

	assert.Equal(t, account.Username, got.Username)
	assert.Equal(t, account.SessionID, got.SessionID)
	assert.Equal(t, account.CSRFToken, got.CSRFToken)
	assert.Equal(t, account.UserAgent, got.UserAgent)
}

func TestEncryptedFileStoreRetrieveMissing(t *testing.T) {
	store := newTestEncryptedStore(t)

	_, err := store.Retrieve("nobody")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreList(t *testing.T) {
	store := newTestEncryptedStore(t)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	require.NoError(t, store.Store(testAccount("alice")))
	require.NoError(t, store.Store(testAccount("bob")))

	accounts, err = store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestEncryptedFileStoreDelete(t *testing.T) {
	store := newTestEncryptedStore(t)

	require.NoError(t, store.Store(testAccount("alice")))
	require.NoError(t, store.Store(testAccount("bob")))

	require.NoError(t, store.Delete("alice"))
	assert.False(t, store.Exists("alice"))
	assert.True(t, store.Exists("bob"))

	assert.ErrorIs(t, store.Delete("alice"), ErrCredentialsNotFound)

	// Deleting the last account removes the file entirely
	require.NoError(t, store.Delete("bob"))
	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestEncryptedFileStoreUpdateExisting(t *testing.T) {
	store := newTestEncryptedStore(t)

	account := testAccount("alice")
	require.NoError(t, store.Store(account))

	account.SessionID = "updated%3Asession%3A26"
	require.NoError(t, store.Store(account))

	got, err := store.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "updated%3Asession%3A26", got.SessionID)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestEncryptedFileStoreRejectsInvalidInput(t *testing.T) {
	store := newTestEncryptedStore(t)

	assert.ErrorIs(t, store.Store(nil), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Store(&Account{}), ErrInvalidCredentials)

	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("REELDL_SESSION_ID", "env-session")
	t.Setenv("REELDL_CSRF_TOKEN", "env-csrf")
	t.Setenv("REELDL_USER_AGENT", "EnvAgent/1.0")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Username)
	assert.Equal(t, "env-session", account.SessionID)
	assert.Equal(t, "env-csrf", account.CSRFToken)
	assert.Equal(t, "EnvAgent/1.0", account.UserAgent)

	assert.True(t, store.Exists(""))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	// Environment store is read-only
	assert.ErrorIs(t, store.Store(testAccount("alice")), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("alice"), ErrStoreUnavailable)
}

func TestEnvironmentStoreMissingCredentials(t *testing.T) {
	t.Setenv("REELDL_SESSION_ID", "")
	t.Setenv("REELDL_CSRF_TOKEN", "")

	store := NewEnvironmentStore()

	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestSanitizeAccount(t *testing.T) {
	account := testAccount("alice")
	sanitized := SanitizeAccount(account)

	assert.Equal(t, "alice", sanitized.Username)
	assert.NotEqual(t, account.SessionID, sanitized.SessionID)
	assert.NotEqual(t, account.CSRFToken, sanitized.CSRFToken)
	assert.Contains(t, sanitized.SessionID, "...")

	// The original is untouched
	assert.NotContains(t, account.SessionID, "...")

	assert.Nil(t, SanitizeAccount(nil))
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "********", maskString("short"))
	assert.Equal(t, "1234...wxyz", maskString("1234567890abcwxyz"))
}
