package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ladder-quiz/internal/domain"
)

const tokenIssuer = "ladder-quiz"

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

type Claims struct {
	Player string `json:"player"`
	Gender string `json:"gender,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies player tokens handed out after setup, so HTTP
// clients can look up their own profile.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	return NewTokensWithClock(secret, ttl, time.Now)
}

// NewTokensWithClock is used by tests for deterministic expiry.
func NewTokensWithClock(secret string, ttl time.Duration, now func() time.Time) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue signs a token for player.
func (t *Tokens) Issue(player, gender string) (string, error) {
	now := t.now()
	claims := &Claims{
		Player: player,
		Gender: gender,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   player,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token. Every failure wraps domain.ErrInvalidToken.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Player == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
