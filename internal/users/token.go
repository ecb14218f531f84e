package users

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session tokens are valid for this long after issue.
const tokenTTL = 24 * time.Hour

// Claims is the session token payload.
type Claims struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	PartnerStudent bool   `json:"partner_student"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token for the user.
func GenerateToken(secret string, u *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         u.ID,
		Email:          u.Email,
		PartnerStudent: u.PartnerStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
