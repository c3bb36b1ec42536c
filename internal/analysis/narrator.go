package analysis

import (
	"context"
	"errors"
	"fmt"

	"curve-trade-sim-go/internal/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a crypto token risk analyst. Analyze bonding curve tokens for potential risks like rug pulls, low liquidity, and wash trading. Be direct and honest."

// ErrEmptyCompletion is returned when the model produced no choices.
var ErrEmptyCompletion = errors.New("completion returned no choices")

// Narrator turns a prompt into a written assessment.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// OpenAINarrator is a Narrator backed by the OpenAI chat completions API.
type OpenAINarrator struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

var _ Narrator = (*OpenAINarrator)(nil)

// NewOpenAINarrator creates a narrator from cfg.
func NewOpenAINarrator(cfg *config.OpenAI, logger *zap.Logger) *OpenAINarrator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAINarrator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("openai"),
	}
}

// Narrate sends prompt with the analyst system prompt and returns the first choice.
func (n *OpenAINarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	n.logger.Debug("Sending prompt", zap.String("model", n.model), zap.Int("length", len(prompt)))

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
