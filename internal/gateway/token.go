package gateway

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by SessionTokenSource once the token's exp
// claim has passed. The identity provider owns refresh; this client only
// refuses to send a token it knows is dead.
var ErrTokenExpired = errors.New("session token expired")

// StaticTokenSource returns the same token forever. Suitable for API keys
// and dev backends that skip verification.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, error) { return string(s), nil }

// SessionTokenSource holds an OIDC-issued JWT and checks its exp claim
// before every attach. The signature is NOT verified here; the backend
// owns verification. The client only avoids sending obviously dead
// credentials.
type SessionTokenSource struct {
	raw    string
	expiry time.Time
	now    func() time.Time
}

// NewSessionTokenSource parses the token's claims. Tokens without an exp
// claim are treated as non-expiring.
func NewSessionTokenSource(raw string) (*SessionTokenSource, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	src := &SessionTokenSource{raw: raw, now: time.Now}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		src.expiry = exp.Time
	}
	return src, nil
}

func (s *SessionTokenSource) Token() (string, error) {
	if !s.expiry.IsZero() && !s.now().Before(s.expiry) {
		return "", ErrTokenExpired
	}
	return s.raw, nil
}
