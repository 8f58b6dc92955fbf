package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"usersvc/internal/config"
	"usersvc/internal/domain/model"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTのpayload
type Claims struct {
	Email string     `json:"email,omitempty"`
	Role  model.Role `json:"role,omitempty"`
	Type  TokenType  `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string { return c.Subject }

func (c *Claims) IsAdmin() bool { return c.Role == model.RoleAdmin }

// 発行したトークンと期限
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
	TTL       time.Duration
}

// access/refreshで別の鍵を使うHS256のトークン発行・検証
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	clock         Clock
	idGen         IDGenerator
}

// DI
func NewTokenService(cfg config.JWTConfig, clock Clock, idGen IDGenerator) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		clock:         clock,
		idGen:         idGen,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// アクセストークン発行。exp = now + accessTTL
func (s *TokenService) IssueAccess(user *model.User, now time.Time) (IssuedToken, error) {
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		Type:  TokenTypeAccess,
		RegisteredClaims: s.registered(user.ID, s.idGen.NewID(), now, s.accessTTL),
	}
	return s.sign(claims, s.accessSecret, s.accessTTL)
}

// リフレッシュトークン発行。jtiはDBのRefreshToken.ID
func (s *TokenService) IssueRefresh(userID, tokenID string, now time.Time) (IssuedToken, error) {
	claims := &Claims{
		Type:             TokenTypeRefresh,
		RegisteredClaims: s.registered(userID, tokenID, now, s.refreshTTL),
	}
	return s.sign(claims, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return s.verify(token, s.accessSecret, TokenTypeAccess)
}

func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return s.verify(token, s.refreshSecret, TokenTypeRefresh)
}

// DBにはトークン本体ではなくsha256のhexを保存する
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (s *TokenService) registered(sub, jti string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    s.issuer,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims *Claims, secret []byte, ttl time.Duration) (IssuedToken, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return IssuedToken{
		Token:     signed,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		TTL:       ttl,
	}, nil
}

func (s *TokenService) verify(token string, secret []byte, want TokenType) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Type != want || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
