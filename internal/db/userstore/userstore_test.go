package userstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/tinylink/internal/models"
)

// bcrypt's minimum cost keeps the tests fast.
const testHashCost = 4

func TestRegisterAndAuthenticate(t *testing.T) {
	theStorage := New(testHashCost)

	usr, err := theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "alice@example.com", usr.Email)
	assert.NotEqual(t, "secret1", usr.PasswordHash, "the plaintext password must never be stored")

	authenticated, err := theStorage.Authenticate(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, authenticated.ID)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret1"},
		{name: "empty password", email: "alice@example.com", password: ""},
		{name: "both empty", email: "", password: ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			theStorage := New(testHashCost)

			_, err := theStorage.Register(context.Background(), test.email, test.password)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	theStorage := New(testHashCost)

	_, err := theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = theStorage.Register(context.Background(), "alice@example.com", "a completely different password")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	theStorage := New(testHashCost)

	_, err := theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = theStorage.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrAuth)
	assert.NotErrorIs(t, err, models.ErrNotFound, "an existing email must never look like a missing user")
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	theStorage := New(testHashCost)

	_, err := theStorage.Authenticate(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindByEmailIsCaseSensitive(t *testing.T) {
	theStorage := New(testHashCost)

	_, err := theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = theStorage.FindByEmail(context.Background(), "Alice@Example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExists(t *testing.T) {
	theStorage := New(testHashCost)

	exists, err := theStorage.Exists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	exists, err = theStorage.Exists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetByID(t *testing.T) {
	theStorage := New(testHashCost)

	usr, err := theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	found, err := theStorage.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.Email, found.Email)

	_, err = theStorage.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNumberOfUsers(t *testing.T) {
	theStorage := New(testHashCost)

	count, err := theStorage.NumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = theStorage.Register(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	_, err = theStorage.Register(context.Background(), "bob@example.com", "secret2")
	require.NoError(t, err)

	count, err = theStorage.NumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
