package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JWT header constants required by RFC 7519.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

// Token types issued by this service. The bearer middleware only accepts
// access tokens; refresh tokens are valid solely at the refresh endpoint.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims are the registered claims this gateway issues, plus a token type
// discriminator so access and refresh tokens cannot be swapped.
type Claims struct {
	Subject   string `json:"sub,omitempty"` // user ID
	Issuer    string `json:"iss,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid validates the temporal claims against current time. Zero values are
// treated as unset per RFC 7519.
func (c Claims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Config is the environment-driven token service configuration.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`           // SigningKey signs and verifies all tokens; at least 32 bytes.
	Issuer     string        `env:"JWT_ISSUER" envDefault:"rt-gateway"` // Issuer is stamped into every token.
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`    // AccessTTL is the access token lifetime.
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`  // RefreshTTL is the refresh token lifetime.
}

// Service signs and verifies tokens using HMAC-SHA256. The signing key is
// kept in memory only.
type Service struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a token service from config.
func New(cfg Config) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	s := &Service{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 15 * time.Minute
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = 7 * 24 * time.Hour
	}
	return s, nil
}

// Pair is an issued access/refresh token pair.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssuePair issues an access and refresh token pair for the given user ID.
func (s *Service) IssuePair(userID string) (Pair, error) {
	now := time.Now()
	access, err := s.generate(Claims{
		Subject:   userID,
		Issuer:    s.issuer,
		TokenType: TokenTypeAccess,
		ExpiresAt: now.Add(s.accessTTL).Unix(),
		IssuedAt:  now.Unix(),
	})
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.generate(Claims{
		Subject:   userID,
		Issuer:    s.issuer,
		TokenType: TokenTypeRefresh,
		ExpiresAt: now.Add(s.refreshTTL).Unix(),
		IssuedAt:  now.Unix(),
	})
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Verify validates a token of the expected type and returns its claims.
func (s *Service) Verify(tokenString, tokenType string) (Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenType {
		return Claims{}, ErrWrongTokenType
	}
	return claims, nil
}

// generate signs the claims into a compact JWT string.
func (s *Service) generate(claims Claims) (string, error) {
	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// parse verifies the signature and algorithm, then unmarshals and
// temporally validates the claims.
func (s *Service) parse(tokenString string) (Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	// Constant-time comparison to prevent timing attacks.
	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return Claims{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return Claims{}, ErrInvalidToken
	}
	// Reject unexpected algorithms to prevent algorithm confusion attacks.
	if h.Algorithm != headerAlgorithm {
		return Claims{}, ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if err := claims.Valid(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64url without padding, as required by RFC 7515.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
