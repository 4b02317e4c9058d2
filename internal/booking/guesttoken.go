package booking

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GuestClaims is the verification token issued to guest bookers at
// creation time. It is the only way an unauthenticated guest can later
// change the status of their reservation.
type GuestClaims struct {
	ReservationID int64  `json:"rid"`
	Email         string `json:"email"`
	jwt.RegisteredClaims
}

// SignGuestToken issues a token bound to one reservation and the guest
// email it was created with.
func SignGuestToken(secret string, reservationID int64, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := GuestClaims{
		ReservationID: reservationID,
		Email:         email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign guest token: %w", err)
	}
	return signed, nil
}

// ParseGuestToken validates a guest verification token and returns its
// claims.
func ParseGuestToken(secret, tokenStr string) (*GuestClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &GuestClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid guest token: %w", err)
	}

	claims, ok := token.Claims.(*GuestClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid guest token claims")
	}
	return claims, nil
}
