package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	sessionIssuer  = "pfkeygen"
	sessionSubject = "operator"
)

var (
	ErrWrongPassword   = errors.New("wrong password")
	ErrTooManyAttempts = errors.New("too many unlock attempts")
	ErrInvalidSession  = errors.New("invalid or expired session")
)

// SessionClaims represents the claims in a session token
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionManager gates the API behind the operator password and issues
// short-lived HS256 session tokens.
type SessionManager struct {
	passwordHash string
	secret       []byte
	ttl          time.Duration
	limiter      *rate.Limiter
	now          func() time.Time
}

// NewSessionManager allows unlockPerMinute password attempts per minute, with bursts of the same size.
func NewSessionManager(passwordHash, secret string, ttl time.Duration, unlockPerMinute int) *SessionManager {
	if unlockPerMinute <= 0 {
		unlockPerMinute = 1
	}
	return &SessionManager{
		passwordHash: passwordHash,
		secret:       []byte(secret),
		ttl:          ttl,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(unlockPerMinute)), unlockPerMinute),
		now:          time.Now,
	}
}

// Unlock checks password and returns a signed session token.
func (m *SessionManager) Unlock(password string) (string, time.Time, error) {
	if !m.limiter.Allow() {
		return "", time.Time{}, ErrTooManyAttempts
	}
	if m.passwordHash == "" || !comparePasswords(m.passwordHash, password) {
		return "", time.Time{}, ErrWrongPassword
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate parses and verifies a session token.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// RequireSession rejects requests without a valid Bearer session token.
func (m *SessionManager) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := m.Validate(tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}
			c.Set("session", claims)
			return next(c)
		}
	}
}
