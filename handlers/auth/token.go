package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token. Donors, hospitals and admins live in separate
// tables, so the role is needed to resolve an id to an account.
const (
	RoleDonor    = "donor"
	RoleHospital = "hospital"
	RoleAdmin    = "admin"
)

// GenerateToken creates a JWT for an authenticated user.
// Claims: user_id, role, exp (24h), signed HS256.
func GenerateToken(userID int, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		return "", fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	}

	return token.SignedString([]byte(secretKey))
}

// IdentityFromToken parses a raw token string and returns the user id and role.
func IdentityFromToken(tokenString string) (int, string, error) {
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		return 0, "", fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("missing user_id claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", fmt.Errorf("missing role claim")
	}

	return int(userID), role, nil
}

// IdentityFromRequest extracts the user id and role from the Authorization
// header. Used by all authenticated endpoints.
func IdentityFromRequest(r *http.Request) (int, string, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return 0, "", fmt.Errorf("no token provided")
	}
	return IdentityFromToken(strings.TrimPrefix(tokenString, "Bearer "))
}
