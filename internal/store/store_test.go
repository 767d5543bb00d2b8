package store

import (
	"errors"
	"testing"

	"autopress/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConfigSingletonRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetConfig()
	if !errors.Is(err, core.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound on fresh store, got %v", err)
	}

	cfg := core.DefaultAutopostConfig()
	cfg.Category = "Technology"
	cfg.Keywords = []string{"go", "sqlite"}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := s.GetConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Category != "Technology" {
		t.Errorf("expected category round-trip, got %q", loaded.Category)
	}
	if len(loaded.Keywords) != 2 {
		t.Errorf("expected keywords round-trip, got %v", loaded.Keywords)
	}
}

func TestSaveConfigReplacesSingleton(t *testing.T) {
	s := newTestStore(t)

	first := core.DefaultAutopostConfig()
	first.Category = "First"
	if err := s.SaveConfig(first); err != nil {
		t.Fatalf("failed to save first config: %v", err)
	}

	second := core.DefaultAutopostConfig()
	second.Category = "Second"
	if err := s.SaveConfig(second); err != nil {
		t.Fatalf("failed to save second config: %v", err)
	}

	loaded, err := s.GetConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Category != "Second" {
		t.Errorf("expected latest config, got %q", loaded.Category)
	}
}

func TestCreateArticleAssignsIdentity(t *testing.T) {
	s := newTestStore(t)

	article := &core.Article{
		Title:    "Test Article",
		Content:  "<p>Body.</p>",
		Category: "Technology",
		Tags:     []string{"go", "testing"},
		AuthorID: "user-1",
		Status:   core.StatusDraft,
	}
	if err := s.CreateArticle(article); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	if article.ID == "" {
		t.Error("expected ID assigned on create")
	}
	if article.CreatedAt.IsZero() || article.UpdatedAt.IsZero() {
		t.Error("expected timestamps assigned on create")
	}

	loaded, err := s.GetArticle(article.ID)
	if err != nil {
		t.Fatalf("failed to load article: %v", err)
	}
	if loaded.Title != "Test Article" {
		t.Errorf("expected title round-trip, got %q", loaded.Title)
	}
	if len(loaded.Tags) != 2 {
		t.Errorf("expected tags round-trip, got %v", loaded.Tags)
	}
	if loaded.Status != core.StatusDraft {
		t.Errorf("expected draft status, got %q", loaded.Status)
	}
}

func TestListArticlesNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, title := range []string{"First", "Second"} {
		if err := s.CreateArticle(&core.Article{Title: title, Status: core.StatusDraft}); err != nil {
			t.Fatalf("failed to create article %q: %v", title, err)
		}
	}

	articles, err := s.ListArticles()
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
}

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.SeedAdminUser("admin@example.com", "Admin"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if err := s.SeedAdminUser("admin@example.com", "Admin"); err != nil {
		t.Fatalf("expected re-seed to be a no-op, got %v", err)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if !users[0].IsAdmin() {
		t.Error("expected seeded user to be admin")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(); err != nil {
		t.Errorf("expected ping to succeed: %v", err)
	}
}
