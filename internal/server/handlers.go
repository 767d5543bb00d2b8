package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"autopress/internal/core"

	"github.com/go-chi/chi/v5"
)

// RunResponse is the trigger endpoint's JSON envelope.
type RunResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ArticleID string `json:"articleId,omitempty"`
}

// StatusResponse is the diagnostics envelope: one pass/fail line per check.
type StatusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthResponse is the liveness envelope.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleRun handles GET|POST /api/autopost/run. The endpoint is closed until
// a trigger secret is configured; a bad or missing secret never reaches the
// pipeline.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if !s.guard.allow(r) {
		s.respondJSON(w, http.StatusUnauthorized, RunResponse{
			Success: false,
			Message: "unauthorized",
		})
		return
	}

	result, err := s.runner.Run(r.Context())
	if err != nil {
		s.log.Error("Generation run failed", "error", err)
		s.respondJSON(w, runErrorStatus(err), RunResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	s.respondJSON(w, http.StatusOK, RunResponse{
		Success:   true,
		Message:   fmt.Sprintf("article %q created", result.Article.Title),
		ArticleID: result.Article.ID,
	})
}

// runErrorStatus maps pipeline errors to HTTP statuses. A missing
// configuration is the caller's problem (nothing to run against); everything
// else is a server-side failure.
func runErrorStatus(err error) int {
	if errors.Is(err, core.ErrConfigNotFound) {
		return http.StatusNotFound
	}
	var cfgErr *core.ConfigError
	if errors.As(err, &cfgErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// handleStatus handles GET /api/autopost/status: read-only diagnostics over
// everything a run needs. No generation is triggered.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	fail := func(name, reason string) {
		checks[name] = "fail: " + reason
		healthy = false
	}

	if s.guard.configured() {
		checks["secret"] = "pass"
	} else {
		fail("secret", "no trigger secret configured")
	}

	if s.backend != nil && s.backend.Ready() {
		checks["api_key"] = "pass"
	} else {
		fail("api_key", "text generation backend is not configured")
	}

	if err := s.store.Ping(); err != nil {
		fail("store", err.Error())
	} else {
		checks["store"] = "pass"
	}

	if users, err := s.store.ListUsers(); err != nil {
		fail("admin", err.Error())
	} else {
		found := false
		for _, u := range users {
			if u.IsAdmin() {
				found = true
				break
			}
		}
		if found {
			checks["admin"] = "pass"
		} else {
			fail("admin", "no admin user to author articles")
		}
	}

	if _, err := s.store.GetConfig(); err != nil {
		fail("config", err.Error())
	} else {
		checks["config"] = "pass"
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusInternalServerError
		state = "unhealthy"
	}

	s.respondJSON(w, status, StatusResponse{Status: state, Checks: checks})
}

// handleListArticles handles GET /api/articles
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles()
	if err != nil {
		s.log.Error("Failed to list articles", "error", err)
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list articles"})
		return
	}
	if articles == nil {
		articles = []core.Article{}
	}
	s.respondJSON(w, http.StatusOK, articles)
}

// handleGetArticle handles GET /api/articles/{id}
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	article, err := s.store.GetArticle(id)
	if err != nil {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	s.respondJSON(w, http.StatusOK, article)
}
