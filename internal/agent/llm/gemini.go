// Package llm constructs the Gemini-backed chat model the engine talks to.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

// ClientConfig holds credentials and endpoint overrides for the Gemini API.
type ClientConfig struct {
	APIKey  string
	BaseURL string
}

// NewChatModel creates a Gemini chat model from the given configuration.
func NewChatModel(ctx context.Context, client ClientConfig, cfg model.ChatModelConfig) (*gemini.ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  client.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if client.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = client.BaseURL
	}

	genaiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      genaiClient,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	logx.Debug().Str("model", cfg.Model).Msg("chat model ready")
	return chatModel, nil
}
