package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rental-booking-backend/internal/booking"
)

const actorKey = "actor"

// AccessClaims is the access-token payload minted by the identity
// service. The booking backend only verifies it.
type AccessClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth parses an optional Bearer token into an Actor on the context.
// Requests without a token pass through unauthenticated; requests with
// a malformed or forged token are rejected outright.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		claims := token.Claims.(*AccessClaims)
		c.Set(actorKey, booking.Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, if any.
func ActorFrom(c *gin.Context) (booking.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return booking.Actor{}, false
	}
	actor, ok := v.(booking.Actor)
	return actor, ok
}
