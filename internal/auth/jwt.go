package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Exactly one of these comes back from VerifyToken;
// the HTTP layer maps all three to 401.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrBadSignature   = errors.New("token signature invalid")
)

type Claims struct {
	UserID string `json:"sub"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager issues and verifies access tokens. Secret and TTL come in at
// construction; there is no ambient configuration.
type Manager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewManager(secret string, accessTTL time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// IssueToken mints a signed HS256 token for the given user with the
// manager's default TTL.
func (m *Manager) IssueToken(userID string) (string, error) {
	return m.IssueTokenWithTTL(userID, m.accessTTL)
}

// IssueTokenWithTTL mints a token with an explicit TTL. A zero or negative
// TTL produces a token that is already expired on verification.
func (m *Manager) IssueTokenWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

// VerifyToken parses and validates a token, returning the subject user ID.
// There are only two outcomes: a valid identity or one of the sentinel
// errors above.
func (m *Manager) VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256; anything else is treated as tampering.
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, ErrBadSignature
		}
		return m.secret, nil
	})

	if err != nil {
		return "", classifyJWTError(err)
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}

	if claims.UserID == "" {
		return "", ErrTokenMalformed
	}

	return claims.UserID, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrBadSignature):
		return ErrBadSignature
	default:
		return ErrTokenMalformed
	}
}
