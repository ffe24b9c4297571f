package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the iss claim stamped on every access token.
const TokenIssuer = "chirpy"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidSubject = errors.New("invalid subject claim")
)

// timeNow is swapped out in tests to pin the clock.
var timeNow = time.Now

// MakeJWT signs an HS256 access token for userID. Claims are
// {iss, sub, iat, exp}; validity is entirely signature plus exp, nothing is
// stored server-side.
func MakeJWT(userID uuid.UUID, secret string, expiresIn time.Duration) (string, error) {
	now := timeNow()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT verifies the signature and time claims and returns the subject.
// An expired-but-well-signed token reports ErrTokenExpired with the expiry
// instant; anything unparseable or signed with the wrong secret reports
// ErrInvalidToken. A missing or non-string subject is ErrInvalidSubject.
func ValidateJWT(tokenString, secret string) (uuid.UUID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(timeNow),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		// The parser only reaches time validation with a valid signature,
		// so disclosing the expiry leaks nothing about other tokens.
		if errors.Is(err, jwt.ErrTokenExpired) {
			if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
				return uuid.Nil, fmt.Errorf("%w at %s", ErrTokenExpired, exp.Time.UTC().Format(time.RFC3339))
			}
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrInvalidSubject
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidSubject
	}

	return userID, nil
}

// MakeRefreshToken returns 256 bits of hex-encoded randomness. The value is
// opaque: it carries no claims and is only meaningful as a database key.
func MakeRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
