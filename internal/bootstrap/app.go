// Package bootstrap wires the process: configuration, capability resolution,
// corpus ingestion and the shared index store. Everything request handlers
// depend on hangs off the App.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"polyi/internal/ai"
	"polyi/internal/app"
	"polyi/internal/config"
	"polyi/internal/docsource"
	"polyi/internal/index"
	"polyi/internal/model"
)

// App is the explicit context object shared across requests. Capabilities
// are resolved exactly once here; handlers and services branch on what they
// were handed, never re-probe.
type App struct {
	Config    *config.Config
	Completer ai.Completer // nil when no completion endpoint is configured
	Embedder  ai.Embedder  // remote encoder or hashing fallback, never nil
	Index     *index.Store

	Router *app.Router
	Embeds *app.EmbedService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	var completer ai.Completer
	if cfg.CompletionEnabled() {
		completer = ai.NewOpenAICompatibleCompleter(ai.ChatConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		log.Info().Str("model", cfg.LLM.Model).Msg("completion capability configured")
	} else {
		log.Warn().Msg("no completion endpoint configured, degrading to keyword/document answers")
	}

	var embedder ai.Embedder
	if cfg.EmbeddingEnabled() {
		embedder = ai.NewOpenAICompatibleEmbedder(ai.EmbeddingConfig{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
		})
		log.Info().Str("model", cfg.Embedding.Model).Msg("embedding capability configured")
	} else {
		embedder = ai.NewHashingEmbedder(cfg.Embedding.FallbackDim)
		log.Warn().Int("dim", cfg.Embedding.FallbackDim).Msg("no embedding endpoint configured, using hashing fallback")
	}

	a := &App{
		Config:    cfg,
		Completer: completer,
		Embedder:  embedder,
		Index:     index.NewStore(),
		StartedAt: time.Now(),
	}
	a.Router = app.NewRouter(app.DefaultKeywordTable(), a.Index, app.NewGenerator(completer), cfg.RAG.TopK)
	a.Embeds = app.NewEmbedService(embedder)

	// Ingestion failures never abort startup; the server comes up with
	// whatever corpus it could build, or none.
	if err := a.buildIndex(ctx); err != nil {
		log.Error().Err(err).Msg("index build failed, serving without retrieval")
	}

	return a, nil
}

func (a *App) buildOptions() index.BuildOptions {
	return index.BuildOptions{
		ChunkSize:    a.Config.RAG.ChunkSize,
		ChunkOverlap: a.Config.RAG.ChunkOverlap,
		TargetDim:    a.Config.RAG.TargetDim,
		BatchSize:    a.Config.RAG.BatchSize,
	}
}

func (a *App) buildIndex(ctx context.Context) error {
	docs := docsource.LoadAll(a.Config.RAG.PDFDir)
	ix, err := a.Index.Rebuild(ctx, docs, a.Embedder, a.buildOptions())
	if errors.Is(err, index.ErrEmptyCorpus) {
		// Fall back to the whole manual as a single document.
		log.Warn().Msg("corpus produced no chunks, falling back to static manual")
		ix, err = a.Index.Rebuild(ctx, []model.Document{
			{Text: docsource.StaticManual(), File: model.StaticFile, Page: 1},
		}, a.Embedder, a.buildOptions())
	}
	if err != nil {
		return err
	}
	log.Info().Int("chunks", ix.Len()).Int("dim", ix.Dimension()).Bool("reduced", ix.Reduced()).Msg("index ready")
	return nil
}

// Reindex rebuilds the index from the document source and atomically swaps
// it in. Serialized by the store; concurrent readers keep the old snapshot
// until the swap.
func (a *App) Reindex(ctx context.Context) (*index.Index, error) {
	docs := docsource.LoadAll(a.Config.RAG.PDFDir)
	return a.Index.Rebuild(ctx, docs, a.Embedder, a.buildOptions())
}
