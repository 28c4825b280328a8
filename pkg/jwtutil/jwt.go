package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shop-service/pkg/apperr"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil issues and verifies HS256 tokens. It holds no mutable state and is
// safe for concurrent use.
type JWTUtil struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config JWTConfig) *JWTUtil {
	return &JWTUtil{config: config, now: time.Now}
}

// GenerateToken creates a JWT token carrying the user id, email and role
func (j *JWTUtil) GenerateToken(userID uint, email, role string) (string, error) {
	if j.config.SigningKey == "" {
		return "", errors.New("JWT signing key not configured")
	}

	now := j.now()
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken parses and verifies tokenString. Every failure is reported
// as an unauthorized error wrapping the parser's reason.
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &apperr.Error{Code: apperr.EUnauthorized, Msg: "Unauthorized user", Op: "jwtutil.ValidateToken", Err: err}
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("Unauthorized user")
	}
	return claims, nil
}
