package handlers

import (
	"autopress/internal/config"
	"autopress/internal/draft"
	"autopress/internal/images"
	"autopress/internal/llm"
	"autopress/internal/pipeline"
	"autopress/internal/seo"
	"autopress/internal/store"
	"autopress/internal/style"
	"autopress/internal/tags"
	"autopress/internal/title"
)

// buildCoordinator wires the generation stages against the given store. The
// text backend is created lazily so a missing API key surfaces at run time,
// not at startup. The returned client doubles as the readiness probe.
func buildCoordinator(st *store.Store) (*pipeline.Coordinator, *llm.Client) {
	client := llm.NewLazyClient(config.GetGeminiModel())

	var generator images.Generator
	if openAI := config.GetAI().OpenAI; openAI.APIKey != "" {
		generator = images.NewOpenAIClient(openAI.APIKey, openAI.BaseURL, openAI.Model)
	}

	imgCfg := config.GetImages()
	uploader := images.NewHostClient(imgCfg.HostBaseURL, imgCfg.HostAPIKey)

	coordinator := pipeline.NewCoordinator(
		title.NewResolver(client),
		draft.NewGenerator(client),
		style.NewAdjuster(client),
		seo.NewOptimizer(client),
		images.NewResolver(client, generator, uploader, imgCfg.Size),
		tags.NewResolver(client),
		st,
	)

	return coordinator, client
}

// openStore opens the SQLite store under the configured data directory.
func openStore() (*store.Store, error) {
	dataDir := config.GetApp().DataDir
	if dataDir == "" {
		dataDir = ".autopress"
	}
	return store.NewStore(dataDir)
}
