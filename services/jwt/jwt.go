package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const AccessTokenValidity = 24 * time.Hour

// Claims is the session token payload. Subject is the local user id.
type Claims struct {
	Email    string `json:"email"`
	Identity string `json:"identity"`
	jwt.StandardClaims
}

// GenerateSessionToken signs an HS256 session token for the user.
func GenerateSessionToken(userID, email, identity, secret string, validity time.Duration) (string, error) {
	if validity <= 0 {
		validity = AccessTokenValidity
	}
	now := time.Now()
	claims := Claims{
		Email:    email,
		Identity: identity,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(validity).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateAndGetClaims verifies the signature and expiry and returns the claims.
func ValidateAndGetClaims(tokenString string, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}
