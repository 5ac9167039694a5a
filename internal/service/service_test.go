package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/tinylink/internal/db/urlstore"
	"github.com/patric-chuzhbe/tinylink/internal/db/userstore"
	"github.com/patric-chuzhbe/tinylink/internal/models"
)

const testShortURLBase = "http://localhost:8080"

func newTestService() *Service {
	return New(urlstore.New(), userstore.New(4), testShortURLBase)
}

func TestGetRecordForUser(t *testing.T) {
	theService := newTestService()

	record, err := theService.ShortenURL(context.Background(), "www.example.com", "alice")
	require.NoError(t, err)

	t.Run("the owner gets the record", func(t *testing.T) {
		found, err := theService.GetRecordForUser(context.Background(), record.ShortID, "alice")
		require.NoError(t, err)
		assert.Equal(t, record.LongURL, found.LongURL)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		_, err := theService.GetRecordForUser(context.Background(), record.ShortID, "bob")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("an anonymous session is forbidden", func(t *testing.T) {
		_, err := theService.GetRecordForUser(context.Background(), record.ShortID, "")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("a missing record is not found, not forbidden", func(t *testing.T) {
		_, err := theService.GetRecordForUser(context.Background(), "missing", "bob")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NotErrorIs(t, err, models.ErrForbidden)
	})
}

func TestUpdateRecordForUser(t *testing.T) {
	theService := newTestService()

	record, err := theService.ShortenURL(context.Background(), "www.example.com", "alice")
	require.NoError(t, err)

	_, err = theService.UpdateRecordForUser(context.Background(), record.ShortID, "www.example.org", "bob")
	assert.ErrorIs(t, err, models.ErrForbidden)

	unchanged, err := theService.GetRecordForUser(context.Background(), record.ShortID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", unchanged.LongURL)

	updated, err := theService.UpdateRecordForUser(context.Background(), record.ShortID, "www.example.org", "alice")
	require.NoError(t, err)
	assert.Equal(t, "www.example.org", updated.LongURL)
}

func TestDeleteRecordForUser(t *testing.T) {
	theService := newTestService()

	record, err := theService.ShortenURL(context.Background(), "www.example.com", "alice")
	require.NoError(t, err)

	err = theService.DeleteRecordForUser(context.Background(), record.ShortID, "bob")
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = theService.DeleteRecordForUser(context.Background(), record.ShortID, "alice")
	require.NoError(t, err)

	err = theService.DeleteRecordForUser(context.Background(), record.ShortID, "alice")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetUserURLs(t *testing.T) {
	theService := newTestService()

	_, err := theService.ShortenURL(context.Background(), "www.example.com", "alice")
	require.NoError(t, err)
	_, err = theService.ShortenURL(context.Background(), "www.example.org", "bob")
	require.NoError(t, err)

	records, err := theService.GetUserURLs(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "www.example.com", records[0].LongURL)

	records, err = theService.GetUserURLs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, records, "an anonymous session gets an empty list")
}

func TestRegisterUserValidation(t *testing.T) {
	theService := newTestService()

	_, err := theService.RegisterUser(context.Background(), models.RegisterRequest{
		Email:    "",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = theService.RegisterUser(context.Background(), models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterThenLogin(t *testing.T) {
	theService := newTestService()

	registered, err := theService.RegisterUser(context.Background(), models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	loggedIn, err := theService.LoginUser(context.Background(), models.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
}

func TestGetShortURL(t *testing.T) {
	theService := New(urlstore.New(), userstore.New(4), testShortURLBase+"/")

	assert.Equal(t, testShortURLBase+"/u/b2xVn2", theService.GetShortURL("b2xVn2"))
}
