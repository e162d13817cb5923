package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/specsmith/specsmith/backend/internal/common/clock"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
)

// SessionPayload is the point-in-time identity snapshot embedded in a session
// token. It proves who authenticated and when, not what the account currently
// looks like; WhoAmI re-reads the user record.
type SessionPayload struct {
	UserID    string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	log    *logger.Logger
}

func NewTokenIssuer(secret string, ttl time.Duration, clk clock.Clock, log *logger.Logger) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
		log:    log,
	}
}

func (i *TokenIssuer) Generate(userID, email, name string) (string, error) {
	now := i.clock.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: email,
		Name:  name,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}

// Verify returns the embedded payload, or ok=false for any structurally
// malformed, tampered or expired token. Failures are never surfaced as errors;
// they are recorded for diagnostics only.
func (i *TokenIssuer) Verify(tokenString string) (SessionPayload, bool) {
	claims := &sessionClaims{}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		incrementTokenVerificationFailure(verificationFailureReason(err))
		if i.log.ShouldLog(logger.DEBUG) {
			i.log.Debugf("token verification failed: %v", err)
		}
		return SessionPayload{}, false
	}

	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		incrementTokenVerificationFailure("claims")
		return SessionPayload{}, false
	}

	return SessionPayload{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

func verificationFailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "other"
	}
}
