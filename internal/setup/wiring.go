package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/claim"
	"github.com/claimsight/claims-agent/internal/config"
	"github.com/claimsight/claims-agent/internal/decision"
	"github.com/claimsight/claims-agent/internal/document"
	"github.com/claimsight/claims-agent/internal/embedding"
	"github.com/claimsight/claims-agent/internal/fraud"
	"github.com/claimsight/claims-agent/internal/llm"
	"github.com/claimsight/claims-agent/internal/llm/bedrock"
	"github.com/claimsight/claims-agent/internal/llm/gpt"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/claimsight/claims-agent/internal/recommend"
	"github.com/claimsight/claims-agent/internal/retrieval"
	"github.com/claimsight/claims-agent/internal/tools"
	"github.com/rs/zerolog"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	EmbedModelID    string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	ClaimStream   string
	ResultStream  string
	ConsumerGroup string
	ConsumerName  string
}

type Dependencies struct {
	Stages     a2a.Stages
	Pipeline   *orchestrator.Pipeline
	Registry   *a2a.Registry
	Router     *a2a.Router
	Dispatcher *tools.Dispatcher
	Store      *retrieval.PgVectorStore
	Logger     *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		EmbedModelID:    getEnv("EMBED_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDatabase: getEnv("POSTGRES_DB", "claims"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		ClaimStream:   getEnv("CLAIM_STREAM", "claim-submissions"),
		ResultStream:  getEnv("RESULT_STREAM", "claim-results"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "claims-group"),
		ConsumerName:  getEnv("HOSTNAME", "claims-worker"),
	}
}

// Wire builds the full agent graph. The LLM client is required; the vector
// store is optional and left nil when POSTGRES_HOST is unset, in which case
// policy retrieval serves the built-in policy document.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	fraudConfig, err := config.LoadFraudConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load fraud config: %w", err)
	}

	var store *retrieval.PgVectorStore
	var searcher retrieval.PassageSearcher
	if cfg.PostgresHost != "" {
		embedder, err := embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbedModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}

		store, err = retrieval.NewPgVectorStore(ctx, retrieval.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
			SSLMode:  cfg.PostgresSSLMode,
		}, embedder)
		if err != nil {
			return nil, fmt.Errorf("failed to create vector store: %w", err)
		}
		searcher = store
	} else {
		logger.Warn().Msg("POSTGRES_HOST not set, policy retrieval uses the built-in policy document")
	}

	stages := a2a.Stages{
		Normalizer:  claim.NewNormalizer(logger),
		Planner:     policy.NewPlanner(llmClient, logger),
		Retriever:   policy.NewRetriever(searcher, logger),
		Recommender: recommend.NewEngine(llmClient, logger),
		FraudScorer: fraud.NewScorer(fraudConfig, llmClient, logger),
		Decider:     decision.NewEngine(logger),
		Analyzer:    document.NewAnalyzer(llmClient, logger),
	}

	pipeline := orchestrator.NewPipeline(
		stages.Normalizer,
		stages.Planner,
		stages.Retriever,
		stages.Recommender,
		stages.FraudScorer,
		stages.Decider,
		logger,
	)

	registry := a2a.NewClaimsRegistry(stages, logger)
	router := a2a.NewRouter(registry, logger)
	dispatcher := tools.NewClaimsDispatcher(stages, pipeline, logger)

	return &Dependencies{
		Stages:     stages,
		Pipeline:   pipeline,
		Registry:   registry,
		Router:     router,
		Dispatcher: dispatcher,
		Store:      store,
		Logger:     logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}
