package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/macrotrack/internal/apperror"
)

// AuthService verifies bearer tokens issued by the identity provider. It
// only mints tokens for local development.
type AuthService struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// ResolveUser returns the user id carried by a valid token.
func (s *AuthService) ResolveUser(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperror.Auth("Missing bearer token")
	}

	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return "", apperror.Auth("Invalid or expired token")
	}

	for _, key := range []string{"sub", "user_id"} {
		userID, ok := claims[key].(string)
		if ok && userID != "" {
			return userID, nil
		}
	}

	return "", apperror.Auth("Token has no subject")
}

func (s *AuthService) GenerateJWT(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
