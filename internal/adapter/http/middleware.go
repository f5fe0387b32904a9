package adapthttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// authMiddleware resolves an optional bearer token to a viewer identity.
// No Authorization header means anonymous; a present but invalid or
// expired token is always an explicit 401, never a silent downgrade.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		viewerID, err := s.tokens.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), viewerContextKey, viewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// viewerFrom returns the authenticated viewer, or uuid.Nil for anonymous.
func viewerFrom(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(viewerContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// requireViewer writes a 401 and reports false when the request carries
// no authenticated identity. Used by all mutating handlers.
func requireViewer(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id := viewerFrom(r.Context())
	if id == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return id, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
