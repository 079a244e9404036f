package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/landregistry-server/internal/api/http/response"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/model"
)

// SessionResolver resolves the user behind a session token.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	sessions       SessionResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, contextManager: contextManager, logger: logger}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Handle rejects requests without a valid session and passes the rest on
// with the user ID in their context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := BearerToken(r)
		if token == "" {
			response.Error(w, model.ErrInvalidSession.WithMessage("missing authorization token"))
			return
		}

		userID, err := m.sessions.ResolveSession(ctx, token)
		if err != nil {
			if model.KindOf(err) != model.KindUnauthenticated {
				m.logger.Error("Authenticate middleware: failed to resolve session",
					"path", r.URL.Path,
					"error", err.Error())
			}
			response.Error(w, err)
			return
		}
		if userID == uuid.Nil {
			response.Error(w, model.ErrInvalidSession)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(ctx, userID)))
	})
}
