package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// OwnerIDKey is the context key for the owner id
	OwnerIDKey contextKey = "ownerID"
)

// maxTokenBytes bounds the bearer token accepted before parsing.
const maxTokenBytes = 8 << 10

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ClaimsFromContext extracts the JWT claims from the request context
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsKey).(*Claims)
	return claims
}

// OwnerIDFromContext returns the signed-in owner, or "" when the request is
// unauthenticated.
func OwnerIDFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(OwnerIDKey).(string)
	return owner
}

// WithOwner returns a context carrying ownerID, as the middleware would set it.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

// SendErrorResponse sends a standardized error response
func SendErrorResponse(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// authFailure is a rejected request, reported as 401 with Code.
type authFailure struct {
	Code    string
	Message string
}

func reject(code, message string) *authFailure {
	return &authFailure{Code: code, Message: message}
}

// Health and metrics are scraped without a token.
func isPublicPath(path string) bool {
	return path == "/health" || path == "/metrics"
}

func validateTokenFormat(token string) error {
	switch {
	case token == "":
		return errors.New("token cannot be empty")
	case len(token) > maxTokenBytes:
		return errors.New("token size exceeds maximum allowed")
	case strings.Count(token, ".") != 2:
		return errors.New("invalid JWT token format")
	}
	return nil
}

func bearerToken(r *http.Request) (string, *authFailure) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", reject("MISSING_AUTH_HEADER", "Authorization header required")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", reject("INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>")
	}
	if err := validateTokenFormat(token); err != nil {
		return "", reject("INVALID_TOKEN_FORMAT", "Invalid token format: "+err.Error())
	}
	return token, nil
}

func tokenFailure(err error) *authFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return reject("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return reject("MALFORMED_TOKEN", "Token is malformed")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), strings.Contains(err.Error(), "signing method"):
		return reject("INVALID_SIGNING_METHOD", "Invalid token signing method")
	default:
		return reject("INVALID_TOKEN", "Invalid or expired token")
	}
}

func (m *JWTManager) authenticate(r *http.Request) (*Claims, *authFailure) {
	token, fail := bearerToken(r)
	if fail != nil {
		return nil, fail
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		return nil, tokenFailure(err)
	}
	if _, err := uuid.Parse(claims.OwnerID()); err != nil {
		return nil, reject("INVALID_OWNER_ID", "Invalid owner id in token")
	}
	return claims, nil
}

// expiryHeaders tells the client its token runs out within the hour.
func expiryHeaders(w http.ResponseWriter, claims *Claims) {
	if claims.ExpiresAt == nil {
		return
	}
	left := time.Until(claims.ExpiresAt.Time)
	if left > 0 && left <= time.Hour {
		w.Header().Set("X-Token-Expires-At", claims.ExpiresAt.Time.Format(time.RFC3339))
		w.Header().Set("X-Token-Expires-In", left.String())
	}
}

// AuthMiddleware validates the bearer token and puts the claims and owner id
// into the request context.
func AuthMiddleware(jwtManager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			claims, fail := jwtManager.authenticate(r)
			if fail != nil {
				SendErrorResponse(w, fail.Message, fail.Code, http.StatusUnauthorized)
				return
			}
			expiryHeaders(w, claims)

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(WithOwner(ctx, claims.OwnerID())))
		})
	}
}
