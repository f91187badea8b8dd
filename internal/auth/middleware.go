package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/coursedesk/enrollment-api/internal/config"
	"go.uber.org/zap"
)

// Middleware authenticates requests by x-api-key header or HS256 bearer token
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       string
	enabled      bool
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AuthConfig, logger *zap.Logger) *Middleware {
	m := &Middleware{
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled,
		logger:  logger,
	}
	if cfg.JWTSecret != "" {
		m.jwtValidator = NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
	}
	return m
}

// Authenticate rejects unauthenticated requests with 401. When auth is
// disabled every request passes through.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(r)
		if !ok {
			unauthorized(w)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", string(principal.Method)),
			zap.String("subject", principal.Subject),
		)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireForWrites authenticates only mutating methods; reads stay public
func (m *Middleware) RequireForWrites(next http.Handler) http.Handler {
	protected := m.Authenticate(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			protected.ServeHTTP(w, r)
		}
	})
}

func (m *Middleware) authenticate(r *http.Request) (*Principal, bool) {
	if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
		if m.validateAPIKey(apiKey) {
			return &Principal{Subject: "system", Name: "System", Method: MethodAPIKey}, true
		}
		m.logger.Warn("invalid API key attempt",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return nil, false
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || m.jwtValidator == nil {
		return nil, false
	}

	principal, err := m.jwtValidator.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		m.logger.Warn("token validation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return nil, false
	}
	return principal, true
}

// validateAPIKey compares in constant time
func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="enrollment-api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
