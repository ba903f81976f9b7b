package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionContextKey is where the session ID lands in the Gin context.
	SessionContextKey = "session_id"

	// TokenHeader carries a freshly minted session token back to clients
	// that do not keep cookies; they replay it as a Bearer token.
	TokenHeader = "X-Session-Token"

	sessionCookie = "cookpress_session"
)

// Session identifies the calling session. A valid Bearer token or cookie
// resumes the existing session; anything missing or invalid silently gets
// a new one. The session ID keys the per-session recipe store, so there is
// no account signup; a session is all the identity this service needs.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessionFromRequest(c, secret); ok {
			c.Set(SessionContextKey, id)
			c.Next()
			return
		}

		id := uuid.New()
		token, err := signSession(id, secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
			c.Abort()
			return
		}

		c.Header(TokenHeader, token)
		c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
		c.Set(SessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the session ID the middleware stored in the context.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func sessionFromRequest(c *gin.Context, secret string) (uuid.UUID, bool) {
	token := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil {
			return uuid.Nil, false
		}
		token = cookie
	}
	return parseSession(token, secret)
}

func signSession(id uuid.UUID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sid": id.String(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseSession(token, secret string) (uuid.UUID, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
