package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const adminRole = "admin"

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginOutput, error)
	ValidateToken(ctx context.Context, token string) (*AdminClaims, error)
}

type authService struct {
	conf config.AdminConfig
	l    logger.Logger
}

func NewAuthService(conf config.AdminConfig, l logger.Logger) AuthService {
	return &authService{
		conf: conf,
		l:    l,
	}
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	if s.conf.PasswordHash == "" {
		s.l.Warnf(ctx, "service.authService.Login: admin password hash is not configured")
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.conf.Username)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(s.conf.PasswordHash), []byte(password)); err != nil || !userOK {
		s.l.Warnf(ctx, "service.authService.Login: rejected login for %q", username)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expAt := now.Add(s.conf.JWTExpiry)
	claims := adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.conf.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(s.conf.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginOutput{Token: tokenStr, ExpiresAt: expAt}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenStr string) (*AdminClaims, error) {
	var claims adminClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		return []byte(s.conf.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			s.l.Debugf(ctx, "service.authService.ValidateToken: %v", err)
		}
		return nil, ErrUnauthorized
	}

	if !token.Valid || claims.Role != adminRole || claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	return &AdminClaims{
		Username:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
