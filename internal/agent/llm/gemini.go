package llm

import (
	"context"
	"fmt"

	logx "github.com/autostream-assistant/server/pkg/logger"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/autostream-assistant/server/internal/agent/model"
)

// ClientConfig holds the Gemini API connection settings.
type ClientConfig struct {
	APIKey  string
	BaseURL string
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, config ClientConfig) (*genai.Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewClassifierChatModel creates the chat model behind the model-based intent
// classifier. Thinking is disabled: the answer is a single label.
func NewClassifierChatModel(ctx context.Context, client *genai.Client, cfg *model.ClassifierConfig) (*gemini.ChatModel, error) {
	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	logx.Debug().Str("model", cfg.Model).Msg("classifier chat model ready")
	return chatModel, nil
}
