package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer-token payload. Tokens are optional everywhere; when
// present they attribute audit rows to the acting user.
type Claims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
