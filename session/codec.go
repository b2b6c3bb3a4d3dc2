// Package session turns an admin's claim set into an opaque signed token
// for the session cookie, and back. Decode failure carries no detail the
// caller should act on: an invalid token and a missing one are the same.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// CookieName is the HTTP-only cookie carrying the session token.
	CookieName = "session"
	// TTL is how long an issued session stays valid.
	TTL = 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

type Claims struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Expiry time.Time
}

type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs the claim set into a token; Expiry defaults to now+TTL.
func (c *Codec) Encode(claims Claims) (string, error) {
	expiry := claims.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(TTL)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID.String(),
		"email":   claims.Email,
		"name":    claims.Name,
		"exp":     expiry.Unix(),
	})
	return token.SignedString(c.secret)
}

// Decode recovers the claim set or fails. Expired, tampered and malformed
// tokens all come back as ErrInvalidSession.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	userIDStr, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidSession
	}

	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	exp, _ := mapClaims["exp"].(float64)

	return &Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Expiry: time.Unix(int64(exp), 0),
	}, nil
}
