// Package pipeline coordinates a full article generation run: title, draft,
// optional style and keyword passes, image resolution, tag resolution, and a
// single persistence write at the end.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"autopress/internal/core"
	"autopress/internal/images"
	"autopress/internal/logger"
	"autopress/internal/seo"
)

// State is a checkpoint in the generation run.
type State string

const (
	StateIdle           State = "idle"
	StateTitleResolved  State = "title_resolved"
	StateDraftGenerated State = "draft_generated"
	StateStyleAdjusted  State = "style_adjusted"
	StateSeoOptimized   State = "seo_optimized"
	StateImagesResolved State = "images_resolved"
	StateTagsResolved   State = "tags_resolved"
	StatePersisted      State = "persisted"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Coordinator wires the generation stages together. One Run produces exactly
// one article or no article at all; there is no partial persistence and no
// retrying of failed stages.
type Coordinator struct {
	titles TitleResolver
	drafts DraftGenerator
	style  StyleAdjuster
	seo    SEOOptimizer
	images ImageResolver
	tags   TagResolver
	store  Store
}

// NewCoordinator creates a pipeline coordinator.
func NewCoordinator(
	titles TitleResolver,
	drafts DraftGenerator,
	style StyleAdjuster,
	seoOpt SEOOptimizer,
	imgs ImageResolver,
	tags TagResolver,
	store Store,
) *Coordinator {
	return &Coordinator{
		titles: titles,
		drafts: drafts,
		style:  style,
		seo:    seoOpt,
		images: imgs,
		tags:   tags,
		store:  store,
	}
}

// Stats tracks run execution metrics.
type Stats struct {
	StartTime      time.Time
	EndTime        time.Time
	ProcessingTime time.Duration
	StageDurations map[State]time.Duration
	FinalState     State
}

// Result is the outcome of one generation run.
type Result struct {
	Article   *core.Article
	Title     string
	Keyword   string // seed keyword, set in random-keyword title mode
	Checklist *seo.Checklist
	Stats     Stats
}

// Run executes the full generation pipeline. The configuration is loaded at
// the start of the run; a missing configuration fails before any model call.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	stats := Stats{
		StartTime:      time.Now(),
		StageDurations: make(map[State]time.Duration),
		FinalState:     StateIdle,
	}
	result := &Result{}

	fail := func(err error) (*Result, error) {
		stats.FinalState = StateFailed
		stats.EndTime = time.Now()
		stats.ProcessingTime = stats.EndTime.Sub(stats.StartTime)
		result.Stats = stats
		return result, err
	}
	advance := func(state State, since time.Time) {
		stats.StageDurations[state] = time.Since(since)
		stats.FinalState = state
	}

	cfg, err := c.store.GetConfig()
	if err != nil {
		return fail(fmt.Errorf("failed to load autopost configuration: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	author, err := c.findAdminAuthor()
	if err != nil {
		return fail(err)
	}

	// Title
	start := time.Now()
	titleResult, err := c.titles.Resolve(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	advance(StateTitleResolved, start)
	result.Title = titleResult.Title
	result.Keyword = titleResult.Keyword
	logger.Info("title resolved", "title", titleResult.Title, "mode", string(titleResult.Mode))

	// Draft
	start = time.Now()
	body, err := c.drafts.Generate(ctx, titleResult.Title, cfg)
	if err != nil {
		return fail(err)
	}
	advance(StateDraftGenerated, start)

	// Style (skipped when no hints are configured)
	if cfg.HasStyleHints() {
		start = time.Now()
		body, err = c.style.Adjust(ctx, body, cfg)
		if err != nil {
			return fail(err)
		}
		advance(StateStyleAdjusted, start)
	}

	// Keyword optimization (skipped when disabled)
	if cfg.SEOEnabled {
		start = time.Now()
		seoResult, err := c.seo.Optimize(ctx, body, cfg.SEOKeywords)
		if err != nil {
			return fail(err)
		}
		body = seoResult.Content
		if seoResult.ChecklistRan {
			result.Checklist = &seoResult.Checklist
		}
		advance(StateSeoOptimized, start)
	}

	// Images
	start = time.Now()
	imageResult, err := c.images.Resolve(ctx, cfg, titleResult.Title)
	if err != nil {
		return fail(err)
	}
	if len(imageResult.InContentURLs) > 0 {
		body, err = images.EmbedInContent(body, imageResult.InContentURLs, cfg.InContentAlignment)
		if err != nil {
			return fail(&core.GenerationError{Stage: "images", Err: err})
		}
	}
	advance(StateImagesResolved, start)

	// Tags
	start = time.Now()
	tagList, err := c.tags.Resolve(ctx, cfg, titleResult.Title)
	if err != nil {
		return fail(err)
	}
	advance(StateTagsResolved, start)

	// Assemble and persist exactly once.
	article := &core.Article{
		Title:              titleResult.Title,
		Content:            assembleContent(body, cfg),
		Category:           cfg.Category,
		Tags:               tagList,
		ImageURL:           imageResult.FeaturedURL,
		BackgroundImageURL: imageResult.BackgroundURL,
		AuthorID:           author.ID,
		Status:             cfg.PublishAction,
		CommentsEnabled:    cfg.EnableComments,
	}

	start = time.Now()
	if err := c.store.CreateArticle(article); err != nil {
		return fail(&core.PersistError{Err: err})
	}
	advance(StatePersisted, start)

	stats.FinalState = StateDone
	stats.EndTime = time.Now()
	stats.ProcessingTime = stats.EndTime.Sub(stats.StartTime)
	result.Article = article
	result.Stats = stats

	logger.Info("article generated",
		"article_id", article.ID,
		"title", article.Title,
		"status", string(article.Status),
		"duration", stats.ProcessingTime.String())

	return result, nil
}

// findAdminAuthor returns the first admin user to own generated articles.
func (c *Coordinator) findAdminAuthor() (*core.User, error) {
	users, err := c.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		if users[i].IsAdmin() {
			return &users[i], nil
		}
	}
	return nil, core.ErrNoAdminUser
}

// assembleContent wraps the body in the alignment/spacing container and
// appends the watermark footer when configured.
func assembleContent(body string, cfg *core.AutopostConfig) string {
	alignment := cfg.ContentAlignment
	if alignment == "" {
		alignment = "left"
	}
	spacing := cfg.ParagraphSpacing
	if spacing == "" {
		spacing = "medium"
	}

	content := fmt.Sprintf(`<div class="ap-content ap-align-%s ap-spacing-%s">%s</div>`, alignment, spacing, body)
	if cfg.Watermark != "" {
		content += fmt.Sprintf("\n<!-- %s -->", cfg.Watermark)
	}
	return content
}
