package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/morph"
	"github.com/semkit/rolemark/internal/resources"
	"github.com/semkit/rolemark/internal/services/analyzer"
	"github.com/semkit/rolemark/internal/services/cache"
	"github.com/semkit/rolemark/internal/services/llm"
	"github.com/semkit/rolemark/internal/storage/badger"
)

func main() {
	configPath := os.Getenv("ROLEMARK_CONFIG")
	if configPath == "" {
		configPath = "rolemark.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	tagger, err := buildTagger(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize tagger")
	}

	store := resources.NewStore(config.Resources, tagger, logger)
	if err := store.Load(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load resources")
	}

	provider := llm.NewProviderFactory(&config.LLM, storageManager.KVStorage(), logger)
	defer provider.Close()

	ttl, err := config.CacheTTL()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid cache TTL")
	}
	cacheSvc := cache.NewService(storageManager.AnalysisStorage(), config.Cache.Enabled, ttl, logger)

	// No event bus here: MCP runs without WebSocket subscribers
	analyzerSvc := analyzer.NewService(store, tagger, provider, cacheSvc, nil, config.Resources.ExampleCount, logger)

	mcpServer := server.NewMCPServer(
		"rolemark",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createAnalyzeTool(), handleAnalyze(analyzerSvc, logger))
	mcpServer.AddTool(createPredicatesTool(), handlePredicates(analyzerSvc, logger))
	mcpServer.AddTool(createGroupsTool(), handleGroups(store, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

func buildTagger(config *common.Config, logger arbor.ILogger) (interfaces.Tagger, error) {
	if config.Morph.Mode == "remote" {
		timeout, err := config.MorphTimeout()
		if err != nil {
			return nil, err
		}
		return morph.NewRemoteTagger(config.Morph.Endpoint, timeout, logger), nil
	}

	lexicon, err := morph.LoadLexicon(config.Morph.LexiconPath)
	if err != nil {
		return nil, err
	}
	return morph.NewLexiconTagger(lexicon, logger), nil
}
