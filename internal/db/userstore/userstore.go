// Package userstore is the in-memory credential store. It owns the
// collection of registered users and is the only component that touches
// password hashes.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/tinylink/internal/keygen"
	"github.com/patric-chuzhbe/tinylink/internal/models"
	"github.com/patric-chuzhbe/tinylink/internal/user"
)

const triesToGenerateUniqueID = 10

// UserStore keeps users in process memory, guarded for concurrent access.
// Emails are matched case-sensitively and are unique across users.
type UserStore struct {
	mu       sync.RWMutex
	byID     map[string]*user.User
	byEmail  map[string]string
	hashCost int
}

// New creates an empty UserStore. hashCost is the bcrypt cost factor used
// when hashing passwords at registration.
func New(hashCost int) *UserStore {
	return &UserStore{
		byID:     map[string]*user.User{},
		byEmail:  map[string]string{},
		hashCost: hashCost,
	}
}

// FindByEmail returns the user with the exact given email or
// models.ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, found := s.byEmail[email]
	if !found {
		return nil, models.ErrNotFound
	}
	usr := *s.byID[userID]

	return &usr, nil
}

// Exists reports whether a user with the given email is registered.
func (s *UserStore) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// GetByID returns the user with the given id or models.ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, userID string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, found := s.byID[userID]
	if !found {
		return nil, models.ErrNotFound
	}
	usrCopy := *usr

	return &usrCopy, nil
}

// Register creates a new user with a freshly generated id and a bcrypt
// hash of the given password. It returns models.ErrValidation when email
// or password is empty and models.ErrConflict when the email is taken.
func (s *UserStore) Register(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.byEmail[email]; found {
		return nil, fmt.Errorf("%w: email %q is already registered", models.ErrConflict, email)
	}

	userID, err := s.generateUniqueID()
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		ID:           userID,
		Email:        email,
		PasswordHash: string(hash),
	}
	s.byID[usr.ID] = usr
	s.byEmail[usr.Email] = usr.ID

	usrCopy := *usr

	return &usrCopy, nil
}

// Authenticate verifies the password for the given email. It returns
// models.ErrNotFound when no user matches the email and models.ErrAuth
// when the password does not match the stored hash. The hash comparison
// is constant-time, delegated to bcrypt.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	usr, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: password mismatch for %q", models.ErrAuth, email)
	}

	return usr, nil
}

// NumberOfUsers returns the count of registered users.
func (s *UserStore) NumberOfUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.byID)), nil
}

// generateUniqueID must be called with the write lock held.
func (s *UserStore) generateUniqueID() (string, error) {
	for i := 0; i < triesToGenerateUniqueID; i++ {
		userID := keygen.Generate()
		if _, exists := s.byID[userID]; !exists {
			return userID, nil
		}
	}

	return "", errors.New("the number of attempts to generate a unique user id has been exceeded")
}
