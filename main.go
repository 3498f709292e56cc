package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/engine"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/llm"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/prompts"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/sessions"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/state"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tools"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/cli"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/core"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/httpapi"
	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
	pkgredis "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/redis"
)

const version = "1.0"

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Infrastructure
	Redis pkgredis.Config

	// Agent configs
	Chat    model.ChatModelConfig
	Engine  model.EngineConfig
	Persona model.PersonaConfig
	History model.HistoryConfig
}

func main() {
	runCLI := flag.Bool("cli", false, "run the interactive console instead of the HTTP server")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	modelTimeout, err := time.ParseDuration(cfg.Engine.ModelTimeout)
	if err != nil {
		logx.Fatal().Err(err).Str("value", cfg.Engine.ModelTimeout).Msg("invalid ENGINE_MODEL_TIMEOUT")
	}

	store := state.NewStore()
	store.Seed()

	registry, err := tooling.NewRegistry(tools.All(store)...)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build tool registry")
	}

	chatModel, err := llm.NewChatModel(ctx, llm.ClientConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}, cfg.Chat)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to create chat model")
	}

	var observer engine.Observer = engine.NopObserver{}
	var renderer *cli.Renderer
	if *runCLI {
		renderer = cli.NewRenderer(os.Stdout)
		observer = renderer
	}

	eng, err := engine.New(chatModel, registry, engine.Config{
		MaxRoundTrips: cfg.Engine.MaxRoundTrips,
		ModelTimeout:  modelTimeout,
		Streaming:     cfg.Engine.Streaming,
		ModelName:     cfg.Chat.Model,
	}, observer)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build turn engine")
	}

	repo, err := buildHistoryRepository(cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build conversation repository")
	}

	systemPrompt, err := prompts.RenderSystem(ctx, cfg.Persona)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to render system prompt")
	}

	svc, err := agent.New(eng, sessions.NewManager(repo), systemPrompt)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build agent")
	}

	if *runCLI {
		runConsole(ctx, svc, renderer, cfg.Persona.AssistantName)
		return
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logx.Info().Str("addr", addr).Str("model", cfg.Chat.Model).Msg("serving chat API")
	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(svc, version),
	}
	if err := server.ListenAndServe(); err != nil {
		logx.Fatal().Err(err).Msg("http server stopped")
	}
}

func buildHistoryRepository(cfg AppConfig) (model.ConversationRepository, error) {
	if cfg.History.Backend != "redis" {
		return sessions.NewMemoryConversationRepository(), nil
	}

	ttl, err := time.ParseDuration(cfg.History.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_TTL %q: %w", cfg.History.TTL, err)
	}
	rdb, err := cfg.Redis.New()
	if err != nil {
		return nil, fmt.Errorf("initialise redis client: %w", err)
	}
	logx.Info().Msg("using redis conversation history")
	return sessions.NewRedisConversationRepository(rdb, ttl), nil
}

func runConsole(ctx context.Context, svc *agent.Agent, renderer *cli.Renderer, assistantName string) {
	sessionID := uuid.NewString()
	banner := fmt.Sprintf("%s console — type 'exit' to leave, 'verbose' to toggle tool output", assistantName)

	repl := cli.NewREPL(os.Stdin, os.Stdout, renderer, func(ctx context.Context, text string) (string, error) {
		return svc.Chat(ctx, sessionID, text)
	}, banner)

	if err := repl.Run(ctx); err != nil {
		logx.Fatal().Err(err).Msg("console stopped")
	}
}
