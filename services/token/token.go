package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-assistant/models/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	ErrInvalidToken     = errors.New("token is invalid or expired")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Blacklist records revoked refresh-token IDs until their natural expiry.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Service issues and verifies the HS256 access/refresh token pair.
type Service struct {
	secret    []byte
	blacklist Blacklist
	now       func() time.Time
}

func NewService(secret string, blacklist Blacklist) *Service {
	return &Service{
		secret:    []byte(secret),
		blacklist: blacklist,
		now:       time.Now,
	}
}

// GeneratePair issues a fresh access/refresh pair for a user. The refresh
// token carries a jti so a single token can be revoked on logout.
func (s *Service) GeneratePair(u *user.User) (access string, refresh string, err error) {
	issuedAt := s.now()

	accessClaims := jwt.MapClaims{
		"token_type": typeAccess,
		"user_id":    u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"iat":        issuedAt.Unix(),
		"exp":        issuedAt.Add(AccessTokenTTL).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := jwt.MapClaims{
		"token_type": typeRefresh,
		"user_id":    u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"jti":        uuid.NewString(),
		"iat":        issuedAt.Unix(),
		"exp":        issuedAt.Add(RefreshTokenTTL).Unix(),
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return access, refresh, nil
}

func (s *Service) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *Service) VerifyAccess(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims["token_type"] != typeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token, including the revocation check.
func (s *Service) VerifyRefresh(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims["token_type"] != typeRefresh {
		return nil, ErrWrongTokenType
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		revoked, err := s.blacklist.Contains(ctx, jti)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenBlacklisted
		}
	}
	return claims, nil
}

// Revoke blacklists a refresh token's jti for its remaining lifetime.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if claims["token_type"] != typeRefresh {
		return ErrWrongTokenType
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return ErrInvalidToken
	}

	ttl := RefreshTokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		remaining := time.Unix(int64(exp), 0).Sub(s.now())
		if remaining > 0 {
			ttl = remaining
		}
	}
	return s.blacklist.Add(ctx, jti, ttl)
}

// UserIDFromClaims pulls the numeric user id out of parsed claims.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id not found in token")
	}
	return uint(id), nil
}
