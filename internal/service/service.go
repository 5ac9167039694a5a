// Package service holds the business logic of the shortener: creating and
// resolving aliases, scoping records to their owner and registering and
// authenticating users. Handlers stay thin by delegating here.
package service

import (
	"context"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/patric-chuzhbe/tinylink/internal/access"
	"github.com/patric-chuzhbe/tinylink/internal/models"
	"github.com/patric-chuzhbe/tinylink/internal/user"
)

type urlsKeeper interface {
	Create(ctx context.Context, longURL, ownerID string) (*models.URLRecord, error)

	Get(ctx context.Context, shortID string) (*models.URLRecord, error)

	Exists(ctx context.Context, shortID string) (bool, error)

	ListForOwner(ctx context.Context, ownerID string) ([]models.URLRecord, error)

	Update(ctx context.Context, shortID, newLongURL string) (*models.URLRecord, error)

	Delete(ctx context.Context, shortID string) error

	ResolveTarget(ctx context.Context, shortID string) (string, error)
}

type credentialsKeeper interface {
	Register(ctx context.Context, email, password string) (*user.User, error)

	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

// Service wires the URL store and the credential store together and
// applies the access policy in the required order: existence first,
// ownership second.
type Service struct {
	urls         urlsKeeper
	users        credentialsKeeper
	shortURLBase string
	validate     *validator.Validate
}

// New creates a Service over the given stores. shortURLBase is the public
// base address used to format short URLs.
func New(urls urlsKeeper, users credentialsKeeper, shortURLBase string) *Service {
	return &Service{
		urls:         urls,
		users:        users,
		shortURLBase: shortURLBase,
		validate:     validator.New(),
	}
}

// ShortenURL creates a record owned by ownerID, which may be empty for an
// anonymous session.
func (s *Service) ShortenURL(ctx context.Context, longURL, ownerID string) (*models.URLRecord, error) {
	return s.urls.Create(ctx, longURL, ownerID)
}

// GetRecordForUser returns the record behind shortID if userID owns it.
// A missing record yields models.ErrNotFound; an existing record owned by
// someone else yields models.ErrForbidden, without leaking the target URL.
func (s *Service) GetRecordForUser(ctx context.Context, shortID, userID string) (*models.URLRecord, error) {
	record, err := s.urls.Get(ctx, shortID)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(userID, record) {
		return nil, fmt.Errorf("%w: the record %q belongs to another user", models.ErrForbidden, shortID)
	}

	return record, nil
}

// UpdateRecordForUser replaces the long URL of a record owned by userID.
func (s *Service) UpdateRecordForUser(ctx context.Context, shortID, newLongURL, userID string) (*models.URLRecord, error) {
	if _, err := s.GetRecordForUser(ctx, shortID, userID); err != nil {
		return nil, err
	}

	return s.urls.Update(ctx, shortID, newLongURL)
}

// DeleteRecordForUser removes a record owned by userID.
func (s *Service) DeleteRecordForUser(ctx context.Context, shortID, userID string) error {
	if _, err := s.GetRecordForUser(ctx, shortID, userID); err != nil {
		return err
	}

	return s.urls.Delete(ctx, shortID)
}

// GetUserURLs lists the records owned by userID. An anonymous session
// gets an empty list.
func (s *Service) GetUserURLs(ctx context.Context, userID string) ([]models.URLRecord, error) {
	if userID == "" {
		return []models.URLRecord{}, nil
	}

	return s.urls.ListForOwner(ctx, userID)
}

// ResolveTarget returns the normalized redirect target for shortID.
func (s *Service) ResolveTarget(ctx context.Context, shortID string) (string, error) {
	return s.urls.ResolveTarget(ctx, shortID)
}

// RegisterUser validates the registration form and creates the account.
func (s *Service) RegisterUser(ctx context.Context, request models.RegisterRequest) (*user.User, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	return s.users.Register(ctx, request.Email, request.Password)
}

// LoginUser authenticates the login form against the credential store.
// An unknown email yields models.ErrNotFound and a wrong password
// models.ErrAuth, so the router can phrase the two responses differently.
func (s *Service) LoginUser(ctx context.Context, request models.LoginRequest) (*user.User, error) {
	return s.users.Authenticate(ctx, request.Email, request.Password)
}

// GetShortURL formats the public short URL for the given alias.
func (s *Service) GetShortURL(shortID string) string {
	return strings.TrimRight(s.shortURLBase, "/") + "/u/" + shortID
}
