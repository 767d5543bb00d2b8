package pipeline

import (
	"context"

	"autopress/internal/core"
	"autopress/internal/images"
	"autopress/internal/seo"
	"autopress/internal/title"
)

// TitleResolver picks the article title per the configured mode.
type TitleResolver interface {
	Resolve(ctx context.Context, cfg *core.AutopostConfig) (*title.Result, error)
}

// DraftGenerator produces the initial HTML article body.
type DraftGenerator interface {
	Generate(ctx context.Context, articleTitle string, cfg *core.AutopostConfig) (string, error)
}

// StyleAdjuster rewrites the body per the configured style hints. It returns
// the body unchanged when no hints are set.
type StyleAdjuster interface {
	Adjust(ctx context.Context, body string, cfg *core.AutopostConfig) (string, error)
}

// SEOOptimizer rewrites the body for the configured keywords, running the
// checklist evaluation tool along the way.
type SEOOptimizer interface {
	Optimize(ctx context.Context, content, keywords string) (*seo.Result, error)
}

// ImageResolver resolves the three image roles for the article.
type ImageResolver interface {
	Resolve(ctx context.Context, cfg *core.AutopostConfig, articleTitle string) (images.Result, error)
}

// TagResolver resolves the final tag set for the article.
type TagResolver interface {
	Resolve(ctx context.Context, cfg *core.AutopostConfig, articleTitle string) ([]string, error)
}

// Store is the persistence surface the coordinator needs: the configuration
// read at the start of a run and the single article write at the end.
type Store interface {
	GetConfig() (*core.AutopostConfig, error)
	ListUsers() ([]core.User, error)
	CreateArticle(article *core.Article) error
}
