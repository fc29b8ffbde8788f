package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the absolute session lifetime. Tokens are never refreshed.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims is the signed payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"principalId"`
	Username    string `json:"username,omitempty"`
	Role        Role   `json:"role"`
	TenantID    string `json:"tenantId,omitempty"`
	TenantSlug  string `json:"tenantSlug,omitempty"`
}

// Token is an issued session token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenIssuerOption configures a TokenIssuer.
type TokenIssuerOption func(*TokenIssuer)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) TokenIssuerOption {
	return func(t *TokenIssuer) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) TokenIssuerOption {
	return func(t *TokenIssuer) {
		t.issuer = issuer
	}
}

// WithClock replaces the time source; used by tests.
func WithClock(now func() time.Time) TokenIssuerOption {
	return func(t *TokenIssuer) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokenIssuer constructs an issuer for the given shared secret.
func NewTokenIssuer(secret string, opts ...TokenIssuerOption) *TokenIssuer {
	if strings.TrimSpace(secret) == "" {
		panic("token secret is required")
	}
	t := &TokenIssuer{
		secret: []byte(secret),
		issuer: "portfolio-api",
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue signs a token for p.
func (t *TokenIssuer) Issue(p Principal) (Token, error) {
	if err := p.Validate(); err != nil {
		return Token{}, err
	}

	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		PrincipalID: p.ID.String(),
		Username:    p.Username,
		Role:        p.Role,
	}
	if p.TenantID != nil {
		claims.TenantID = p.TenantID.String()
	}
	if p.TenantSlug != nil {
		claims.TenantSlug = *p.TenantSlug
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a signed token. It satisfies VerifyFunc.
func (t *TokenIssuer) Verify(_ context.Context, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(t.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// PrincipalFromClaims converts verified claims into a Principal. It satisfies ExtractFunc.
func PrincipalFromClaims(claims *Claims) (*Principal, error) {
	if claims == nil {
		return nil, ErrInvalidClaims
	}

	idStr := claims.PrincipalID
	if idStr == "" {
		idStr = claims.Subject
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	role, err := ParseRole(string(claims.Role))
	if err != nil {
		return nil, ErrInvalidClaims
	}

	p := &Principal{ID: id, Username: claims.Username, Role: role}
	if claims.TenantID != "" {
		tid, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return nil, ErrInvalidClaims
		}
		p.TenantID = &tid
	}
	if claims.TenantSlug != "" {
		slug := claims.TenantSlug
		p.TenantSlug = &slug
	}

	if err := p.Validate(); err != nil {
		return nil, ErrInvalidClaims
	}
	return p, nil
}

// ExtractJWTToken returns the bearer token from the Authorization header.
func ExtractJWTToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	const prefix = "Bearer "
	// Case-insensitive prefix match.
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}

	return strings.TrimSpace(authHeader[len(prefix):]), true
}
