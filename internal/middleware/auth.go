package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// SessionAuth issues and validates the anonymous session tokens that scope
// every persisted record. There are no user accounts: a token carries only
// a generated session ID.
type SessionAuth struct {
	Secret []byte
	TTL    time.Duration
}

func NewSessionAuth(secret string, ttl time.Duration) *SessionAuth {
	return &SessionAuth{Secret: []byte(secret), TTL: ttl}
}

// IssueToken creates a signed session token.
func (a *SessionAuth) IssueToken(sessionID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionID.String(),
		"exp":        time.Now().Add(a.TTL).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// Middleware validates the bearer token and attaches the session ID to the
// request context.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.Secret, nil
		})

		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", r)
			return
		}

		sidStr, ok := claims["session_id"].(string)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid session ID in token", r)
			return
		}

		sid, err := uuid.Parse(sidStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid session ID format", r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(ctx context.Context) uuid.UUID {
	if sid, ok := ctx.Value(SessionIDKey).(uuid.UUID); ok {
		return sid
	}
	return uuid.Nil
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
