// Package auth manages the signed session cookie and the middleware that
// resolves it to a user id. Sessions are JWTs with a fixed absolute
// expiry; an expired or tampered token simply yields an anonymous request.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/tinylink/internal/logger"
	"github.com/patric-chuzhbe/tinylink/internal/user"
)

type userKeeper interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
}

// Auth issues, parses and clears the session cookie.
type Auth struct {
	// db is the interface to the user data storage.
	db userKeeper

	// authCookieName is the name of the cookie used to store the JWT.
	authCookieName string

	// authCookieSigningSecretKey is the key used to sign JWTs.
	authCookieSigningSecretKey []byte

	// sessionTTL is the fixed absolute lifetime of a session.
	sessionTTL time.Duration
}

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates a new Auth handler with the given user data access layer,
// cookie name, JWT signing secret and session lifetime.
func New(
	db userKeeper,
	authCookieName string,
	authCookieSigningSecretKey []byte,
	sessionTTL time.Duration,
) *Auth {
	return &Auth{
		db:                         db,
		authCookieName:             authCookieName,
		authCookieSigningSecretKey: authCookieSigningSecretKey,
		sessionTTL:                 sessionTTL,
	}
}

// OpenSession signs a JWT for the given user and sets it as the session
// cookie. The expiry is absolute: sessionTTL from issuance, evaluated
// lazily when the token is parsed on later requests.
func (a *Auth) OpenSession(response http.ResponseWriter, userID string) error {
	now := time.Now()
	JWTString, err := a.buildJWTString(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.sessionTTL)),
		},
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("building the session JWT: %w", err)
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    JWTString,
			Path:     "/",
			HttpOnly: true,
			MaxAge:   int(a.sessionTTL.Seconds()),
		},
	)

	return nil
}

// CloseSession clears the session cookie.
func (a *Auth) CloseSession(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		},
	)
}

// AuthenticateUser is an HTTP middleware that resolves the session cookie
// to a user id and stores it in the request context. Requests with no
// cookie, an invalid or expired token, or a token referencing a user that
// no longer exists proceed as anonymous.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := a.getUserIDFromCookie(request)

		if userID != "" {
			usr, err := a.db.GetByID(request.Context(), userID)
			if err != nil {
				logger.Log.Debugln("Session references an unknown user: ", zap.Error(err))
				userID = ""
			} else {
				userID = usr.ID
			}
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		requestWithCtx := request.WithContext(ctx)

		h.ServeHTTP(response, requestWithCtx)
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext returns the session user id stored by
// AuthenticateUser, or an empty string for an anonymous request.
func UserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}

	return userID
}

func (a *Auth) getUserIDFromCookie(request *http.Request) string {
	cookie, err := request.Cookie(a.authCookieName)
	if err != nil {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.authCookieSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}

func (a *Auth) buildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.authCookieSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
