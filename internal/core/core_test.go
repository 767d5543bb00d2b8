package core

import (
	"errors"
	"testing"
)

func validConfig() *AutopostConfig {
	cfg := DefaultAutopostConfig()
	cfg.Category = "Technology"
	cfg.ManualTitle = "A Title"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*AutopostConfig)
		wantField string
	}{
		{"valid manual", func(c *AutopostConfig) {}, ""},
		{"blank manual title", func(c *AutopostConfig) { c.ManualTitle = "  " }, "manual_title"},
		{"random keyword without keywords", func(c *AutopostConfig) {
			c.TitleMode = TitleRandomKeyword
			c.Keywords = nil
		}, "keywords"},
		{"random keyword with keywords", func(c *AutopostConfig) {
			c.TitleMode = TitleRandomKeyword
			c.Keywords = []string{"go"}
		}, ""},
		{"category mode without category", func(c *AutopostConfig) {
			c.TitleMode = TitleAICategory
			c.Category = ""
		}, "category"},
		{"unknown title mode", func(c *AutopostConfig) { c.TitleMode = "surprise" }, "title_mode"},
		{"negative length hint", func(c *AutopostConfig) { c.Words = -1 }, "paragraphs"},
		{"negative tag count", func(c *AutopostConfig) {
			c.AddTags = true
			c.NumberOfTags = -1
		}, "number_of_tags"},
		{"bad publish action", func(c *AutopostConfig) { c.PublishAction = "queued" }, "publish_action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestHasStyleHints(t *testing.T) {
	cfg := validConfig()
	if cfg.HasStyleHints() {
		t.Error("expected no style hints on default config")
	}
	cfg.StyleTone = "casual"
	if !cfg.HasStyleHints() {
		t.Error("expected style hints with tone set")
	}
}

func TestIsAdmin(t *testing.T) {
	if (User{Role: "user"}).IsAdmin() {
		t.Error("expected plain user not to be admin")
	}
	if !(User{Role: RoleAdmin}).IsAdmin() {
		t.Error("expected admin role to be admin")
	}
}
