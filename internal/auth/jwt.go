// Package auth provides token issuing/verification, password hashing and the
// HTTP middleware that guards protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. POST /register stores the user with a bcrypt hash of the password
//  2. POST /login checks the password and returns a signed JWT (1 hour)
//  3. The client sends "Authorization: Bearer <token>" on protected routes
//  4. RequireAuth verifies the token and puts the claims in the request context
//
// JWT STRUCTURE (three base64url parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:    {"alg":"HS256","typ":"JWT"}
//	- Payload:   {"userId":1,"username":"alice","email":"a@x.com","sub":"1","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
//
// Verification needs only the secret, no database lookup.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	issuer          = "skillhub"
	minSecretLength = 16

	// DefaultTokenTTL is the lifetime of a login token.
	DefaultTokenTTL = time.Hour
)

// Verification failures. Every one of them means "invalid token" to the
// middleware; they are distinct so tests and logs can tell them apart.
var (
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrInvalidToken     = errors.New("auth: invalid token")
)

// Identity is what a token says about its bearer.
type Identity struct {
	UserID   int64
	Username string
	Email    string
}

// Claims is the JWT payload: the caller's identity plus the registered
// claims (sub, iss, iat, exp, jti).
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the identity carried by c.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, Email: c.Email}
}

// TokenService handles JWT creation and validation.
//
// The HMAC secret is the same for signing and verifying (HS256). It comes
// from JWT_SECRET; rotating it invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; a non-positive ttl is rejected.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now. Both
// issuing and expiry checks use it, so tests can move time forward.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// TTL reports the lifetime of tokens created by Issue.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for id that expires after the configured TTL.
func (s *TokenService) Issue(id Identity) (string, error) {
	return s.IssueWithDuration(id, s.ttl)
}

// IssueWithDuration signs a token with an explicit lifetime. A negative d
// yields an already-expired token, which is what the expiry tests use.
func (s *TokenService) IssueWithDuration(id Identity, d time.Duration) (string, error) {
	if id.UserID <= 0 {
		return "", errors.New("auth: cannot issue a token without a user id")
	}

	now := s.now()
	c := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token and returns its claims.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature matches (ErrInvalidSignature otherwise)
//   - Not expired (ErrTokenExpired otherwise)
//   - Issuer is "skillhub", algorithm is HS256, exp is present
//
// Restricting the algorithm with jwt.WithValidMethods blocks the "alg: none"
// and algorithm-confusion tricks.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	c := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenStr,
		c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}

	if !token.Valid || c.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return c, nil
}
