// Package auth identifies the caller of the API by a bearer token.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coincraft/backend/internal/httputil"
	"github.com/coincraft/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ContextOwner is the gin context key the ID of the caller is stored under.
const ContextOwner models.ContextKey = "coincraft-owner"

var (
	ErrTokenMissing = fmt.Errorf("%w: the Authorization header must contain a bearer token", models.ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: the bearer token is invalid or expired", models.ErrUnauthorized)
)

// Middleware aborts all requests that do not carry a valid HS256 token
// signed with secret. The sub claim of the token is the owner of all
// resources the request works with.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := parse(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("Authentication")
			httputil.NewError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set(string(ContextOwner), owner)
		c.Next()
	}
}

func parse(header string, secret []byte) (string, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return "", ErrTokenMissing
	}

	token, err := jwt.Parse(strings.TrimSpace(raw), func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	owner, err := token.Claims.GetSubject()
	if err != nil || owner == "" {
		return "", ErrTokenInvalid
	}

	return owner, nil
}

// Owner returns the ID of the authenticated caller.
func Owner(c *gin.Context) string {
	return c.GetString(string(ContextOwner))
}

// Sign returns a token for owner that expires after ttl.
func Sign(owner string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   owner,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(secret)
}
