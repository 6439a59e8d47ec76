package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of an access token when none is configured.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Token is a minted access token together with its allowlist metadata.
type Token struct {
	ID        string
	UserID    int64
	Signed    string
	ExpiresAt time.Time
}

// Claims are the verified contents of an access token.
type Claims struct {
	ID     string
	UserID int64
}

// Signer mints and verifies HMAC-signed access tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a Signer from a shared secret and token lifetime.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Mint issues a signed token for the user.
func (s *Signer) Mint(userID int64) (Token, error) {
	if s == nil {
		return Token{}, fmt.Errorf("signer is not configured")
	}
	if userID <= 0 {
		return Token{}, fmt.Errorf("user id is required")
	}

	tokenID := uuid.NewString()
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{ID: tokenID, UserID: userID, Signed: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses a signed token and returns its claims.
func (s *Signer) Verify(signed string) (Claims, error) {
	if s == nil {
		return Claims{}, fmt.Errorf("signer is not configured")
	}
	if strings.TrimSpace(signed) == "" {
		return Claims{}, fmt.Errorf("token is required")
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return Claims{}, fmt.Errorf("token is invalid")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Claims{}, fmt.Errorf("token subject is invalid")
	}
	if claims.ID == "" {
		return Claims{}, fmt.Errorf("token id is missing")
	}
	return Claims{ID: claims.ID, UserID: userID}, nil
}
