// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"microblog/internal/app"
	"microblog/internal/token"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth   *app.AuthService
	feed   *app.FeedService
	tokens *token.Service
	log    *slog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, feed *app.FeedService, tokens *token.Service, log *slog.Logger) *Server {
	return &Server{auth: auth, feed: feed, tokens: tokens, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.handleMe)

	mux.HandleFunc("GET /api/timeline", s.handleTimeline)
	mux.HandleFunc("POST /api/tweets", s.handleCreateTweet)
	mux.HandleFunc("GET /api/tweets/{id}", s.handleGetTweet)
	mux.HandleFunc("DELETE /api/tweets/{id}", s.handleDeleteTweet)
	mux.HandleFunc("POST /api/tweets/{id}/like", s.handleLike)
	mux.HandleFunc("DELETE /api/tweets/{id}/like", s.handleUnlike)
	mux.HandleFunc("GET /api/tweets/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/tweets/{id}/comments", s.handleCreateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", s.handleDeleteComment)
	mux.HandleFunc("POST /api/users/{id}/follow", s.handleFollow)
	mux.HandleFunc("DELETE /api/users/{id}/follow", s.handleUnfollow)

	return s.loggingMiddleware(s.authMiddleware(mux))
}
