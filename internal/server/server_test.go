package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"autopress/internal/config"
	"autopress/internal/core"
	"autopress/internal/pipeline"
)

type mockRunner struct {
	result *pipeline.Result
	err    error
	calls  int
}

func (m *mockRunner) Run(ctx context.Context) (*pipeline.Result, error) {
	m.calls++
	return m.result, m.err
}

type mockStore struct {
	cfg      *core.AutopostConfig
	cfgErr   error
	users    []core.User
	articles []core.Article
	pingErr  error
}

func (m *mockStore) Ping() error { return m.pingErr }

func (m *mockStore) GetConfig() (*core.AutopostConfig, error) {
	if m.cfgErr != nil {
		return nil, m.cfgErr
	}
	return m.cfg, nil
}

func (m *mockStore) ListUsers() ([]core.User, error) { return m.users, nil }

func (m *mockStore) GetArticle(id string) (*core.Article, error) {
	for i := range m.articles {
		if m.articles[i].ID == id {
			return &m.articles[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockStore) ListArticles() ([]core.Article, error) { return m.articles, nil }

type mockBackend struct {
	ready bool
}

func (m *mockBackend) Ready() bool { return m.ready }

func newTestServer(secret string, runner *mockRunner, store *mockStore) *Server {
	return New(store, runner, &mockBackend{ready: true}, secret, config.Server{Host: "127.0.0.1", Port: 0})
}

func healthyStore() *mockStore {
	return &mockStore{
		cfg:   core.DefaultAutopostConfig(),
		users: []core.User{{ID: "user-1", Role: core.RoleAdmin}},
	}
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeRun(t *testing.T, rec *httptest.ResponseRecorder) RunResponse {
	t.Helper()
	var resp RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestRunRejectsWrongSecret(t *testing.T) {
	runner := &mockRunner{}
	s := newTestServer("correct-secret", runner, healthyStore())

	rec := doRequest(s, http.MethodGet, "/api/autopost/run?secret=wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeRun(t, rec)
	if resp.Success {
		t.Error("expected success=false in unauthorized response")
	}
	if runner.calls != 0 {
		t.Errorf("expected no pipeline run on bad secret, got %d", runner.calls)
	}
}

func TestRunFailsClosedWithoutSecret(t *testing.T) {
	runner := &mockRunner{}
	s := newTestServer("", runner, healthyStore())

	// Even an empty caller secret must not match an unset server secret.
	for _, target := range []string{"/api/autopost/run", "/api/autopost/run?secret="} {
		rec := doRequest(s, http.MethodPost, target)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 with unset server secret, got %d", target, rec.Code)
		}
	}
	if runner.calls != 0 {
		t.Errorf("expected no pipeline runs, got %d", runner.calls)
	}
}

func TestRunAcceptsBearerToken(t *testing.T) {
	runner := &mockRunner{result: &pipeline.Result{Article: &core.Article{ID: "article-1", Title: "Generated"}}}
	s := newTestServer("trigger-secret", runner, healthyStore())

	req := httptest.NewRequest(http.MethodPost, "/api/autopost/run", nil)
	req.Header.Set("Authorization", "Bearer trigger-secret")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeRun(t, rec)
	if !resp.Success || resp.ArticleID != "article-1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRunMissingConfigurationReturns404(t *testing.T) {
	runner := &mockRunner{err: core.ErrConfigNotFound}
	s := newTestServer("trigger-secret", runner, healthyStore())

	rec := doRequest(s, http.MethodGet, "/api/autopost/run?secret=trigger-secret")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	resp := decodeRun(t, rec)
	if resp.Success {
		t.Error("expected success=false for missing configuration")
	}
	if runner.calls != 1 {
		t.Errorf("expected exactly one run attempt, got %d", runner.calls)
	}
}

func TestRunPipelineFailureReturns500(t *testing.T) {
	runner := &mockRunner{err: &core.GenerationError{Stage: "draft", Err: errors.New("model unavailable")}}
	s := newTestServer("trigger-secret", runner, healthyStore())

	rec := doRequest(s, http.MethodGet, "/api/autopost/run?secret=trigger-secret")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestStatusAllChecksPass(t *testing.T) {
	s := newTestServer("trigger-secret", &mockRunner{}, healthyStore())

	rec := doRequest(s, http.MethodGet, "/api/autopost/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, check := range []string{"secret", "api_key", "store", "admin", "config"} {
		if resp.Checks[check] != "pass" {
			t.Errorf("expected %s check to pass, got %q", check, resp.Checks[check])
		}
	}
}

func TestStatusReportsFailures(t *testing.T) {
	store := healthyStore()
	store.cfgErr = core.ErrConfigNotFound
	store.users = nil
	s := newTestServer("", &mockRunner{}, store)

	rec := doRequest(s, http.MethodGet, "/api/autopost/status")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, check := range []string{"secret", "admin", "config"} {
		if resp.Checks[check] == "pass" {
			t.Errorf("expected %s check to fail", check)
		}
	}
	if resp.Checks["store"] != "pass" {
		t.Errorf("expected store check to pass, got %q", resp.Checks["store"])
	}
}

func TestGetArticle(t *testing.T) {
	store := healthyStore()
	store.articles = []core.Article{{ID: "article-1", Title: "Stored"}}
	s := newTestServer("trigger-secret", &mockRunner{}, store)

	rec := doRequest(s, http.MethodGet, "/api/articles/article-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/articles/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing article, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer("trigger-secret", &mockRunner{}, healthyStore())
	rec := doRequest(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
