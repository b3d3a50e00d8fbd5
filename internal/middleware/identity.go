package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jmlhub/jml-api/internal/models"
)

// ContextUserKey is the gin context key storing bearer-token claims.
const ContextUserKey = "currentUser"

// Identity attaches claims from a bearer token when one is present. No route
// requires a token; the claims only attribute audit rows to the acting user,
// so a missing or invalid token falls through silently.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || secret == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequestMeta extracts audit attribution for the current request: the acting
// user when a token was attached, plus client IP and user agent.
func RequestMeta(c *gin.Context) models.RequestMeta {
	meta := models.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if value, ok := c.Get(ContextUserKey); ok {
		if claims, ok := value.(*models.Claims); ok && claims.UserID != "" {
			userID := claims.UserID
			meta.ActorID = &userID
		}
	}
	return meta
}
