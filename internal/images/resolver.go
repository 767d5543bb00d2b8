package images

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"autopress/internal/core"
	"autopress/internal/llm"
	"autopress/internal/logger"

	"golang.org/x/sync/errgroup"
)

// LLMClient is the subset of the text backend the resolver needs to compose
// image descriptions for ai-generated roles.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Role names for logging and error context.
const (
	RoleFeatured   = "featured"
	RoleBackground = "background"
	RoleInContent  = "in-content"
)

// Result carries the resolved URL for each image role. An empty value means
// the role resolved to no image.
type Result struct {
	FeaturedURL   string
	BackgroundURL string
	InContentURLs []string
}

// Resolver resolves the featured, background and in-content image roles for
// an article. Each role resolves independently; the three run concurrently.
type Resolver struct {
	llmClient LLMClient
	generator Generator
	uploader  Uploader
	size      string

	mu   sync.Mutex
	pick func(n int) int
}

// NewResolver creates a resolver. generator may be nil when image generation
// is not configured; ai-generated roles then resolve empty with a warning.
func NewResolver(llmClient LLMClient, generator Generator, uploader Uploader, size string) *Resolver {
	return &Resolver{
		llmClient: llmClient,
		generator: generator,
		uploader:  uploader,
		size:      size,
		pick:      rand.Intn,
	}
}

// NewResolverWithPicker creates a resolver with a deterministic pool picker.
func NewResolverWithPicker(llmClient LLMClient, generator Generator, uploader Uploader, size string, pick func(n int) int) *Resolver {
	r := NewResolver(llmClient, generator, uploader, size)
	r.pick = pick
	return r
}

// Resolve resolves all three image roles for the article. Roles run
// concurrently; the first error cancels the rest.
func (r *Resolver) Resolve(ctx context.Context, cfg *core.AutopostConfig, title string) (Result, error) {
	var result Result

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := r.resolveRole(gctx, cfg, title, RoleFeatured, cfg.FeaturedImageMode, cfg.FeaturedImagePool)
		if err != nil {
			return err
		}
		result.FeaturedURL = url
		return nil
	})

	g.Go(func() error {
		url, err := r.resolveRole(gctx, cfg, title, RoleBackground, cfg.BackgroundImageMode, cfg.BackgroundImagePool)
		if err != nil {
			return err
		}
		result.BackgroundURL = url
		return nil
	})

	g.Go(func() error {
		urls, err := r.resolveInContent(gctx, cfg, title)
		if err != nil {
			return err
		}
		result.InContentURLs = urls
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return result, nil
}

// resolveRole resolves a single-image role to at most one URL.
func (r *Resolver) resolveRole(ctx context.Context, cfg *core.AutopostConfig, title, role string, mode core.ImageMode, pool []string) (string, error) {
	switch mode {
	case core.ImageRandomList:
		return r.pickFromPool(pool), nil
	case core.ImageAIGenerate:
		return r.generateAndUpload(ctx, cfg, title, role)
	default:
		return "", nil
	}
}

// resolveInContent resolves the in-content role to InContentImageCount URLs.
func (r *Resolver) resolveInContent(ctx context.Context, cfg *core.AutopostConfig, title string) ([]string, error) {
	count := cfg.InContentImageCount
	if cfg.InContentImageMode == core.ImageNone || cfg.InContentImageMode == "" || count <= 0 {
		return nil, nil
	}

	var urls []string
	for i := 0; i < count; i++ {
		url, err := r.resolveRole(ctx, cfg, title, RoleInContent, cfg.InContentImageMode, cfg.InContentImagePool)
		if err != nil {
			return nil, err
		}
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls, nil
}

// pickFromPool returns a uniformly picked URL from the pool, or empty when
// the pool is empty. An empty pool is a degraded state, not an error.
func (r *Resolver) pickFromPool(pool []string) string {
	if len(pool) == 0 {
		logger.Warn("image pool is empty, resolving role without an image")
		return ""
	}
	r.mu.Lock()
	idx := r.pick(len(pool))
	r.mu.Unlock()
	return pool[idx]
}

// generateAndUpload runs description -> generation -> upload for one role.
// When the generator is not configured the role resolves empty with a
// warning. Generation and upload failures abort the run only under the
// strict-images policy; otherwise the role degrades to empty.
func (r *Resolver) generateAndUpload(ctx context.Context, cfg *core.AutopostConfig, title, role string) (string, error) {
	if r.generator == nil {
		logger.Warn("image generation is not configured, skipping ai-generated image", "role", role)
		return "", nil
	}

	prompt := describePrompt(title, cfg.Category, role)
	description, err := r.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{Temperature: 0.8, MaxTokens: 256})
	if err != nil {
		// The description is a refinement step; fall back to the raw prompt.
		logger.Warn("image description generation failed, using fallback prompt", "role", role, "error", err)
		description = fmt.Sprintf("A professional illustration for a %s article titled %q", cfg.Category, title)
	}

	data, err := r.generator.GenerateImage(ctx, description, r.size)
	if err != nil {
		if cfg.StrictImages {
			return "", &core.GenerationError{Stage: "images", Err: fmt.Errorf("%s image: %w", role, err)}
		}
		logger.Warn("image generation failed, resolving role without an image", "role", role, "error", err)
		return "", nil
	}

	filename := fmt.Sprintf("autopost-%s-%d.png", role, time.Now().UnixNano())
	url, err := r.uploader.Upload(ctx, data, filename)
	if err != nil {
		if cfg.StrictImages {
			return "", &core.UploadError{Role: role, Err: err}
		}
		logger.Warn("image upload failed, resolving role without an image", "role", role, "error", err)
		return "", nil
	}

	return url, nil
}

// describePrompt asks the text backend for a concise image-generation prompt.
func describePrompt(title, category, role string) string {
	return fmt.Sprintf(`Write a single concise visual description (one sentence, no preamble) for a %s image to accompany a %s blog article titled %q. Describe the scene, style and mood only.`, role, category, title)
}
