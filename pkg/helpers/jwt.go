package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is matched by every token verification failure
var ErrInvalidToken = errors.New("invalid token")

// TokenFailure names why a token was rejected
type TokenFailure string

const (
	TokenMissing   TokenFailure = "missing"
	TokenMalformed TokenFailure = "malformed"
	TokenSignature TokenFailure = "signature"
	TokenExpired   TokenFailure = "expired"
)

// TokenError is returned by Verify; errors.Is(err, ErrInvalidToken) holds for all of them
type TokenError struct {
	Reason TokenFailure
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return "invalid token (" + string(e.Reason) + "): " + e.Err.Error()
	}
	return "invalid token (" + string(e.Reason) + ")"
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }

// JWTManager issues and verifies HS256 session tokens
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issue signs a token for userID that expires after the manager TTL
func (m *JWTManager) Issue(userID string) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify returns the user id embedded in a valid, unexpired token
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return "", &TokenError{Reason: TokenMissing}
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.clock), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", &TokenError{Reason: TokenExpired, Err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return "", &TokenError{Reason: TokenSignature, Err: err}
		default:
			return "", &TokenError{Reason: TokenMalformed, Err: err}
		}
	}
	if !tkn.Valid || claims.UserID == "" {
		return "", &TokenError{Reason: TokenMalformed}
	}
	return claims.UserID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
