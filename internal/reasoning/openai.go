package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mcoot/parityagent-go/internal/model"
)

const defaultSystemPrompt = `You are an agent playing the Even/Odd game.

Rules: two players simultaneously choose "even" or "odd". The referee draws
a number from 1-10; you win if its parity matches your choice. Win = 3
points, draw = 1 point, loss = 0 points.

Respond with a single JSON object and nothing else:
{"choice": "even", "reasoning": "one or two sentences"}

The choice field MUST be lowercase "even" or "odd".`

// OpenAIConfig configures the OpenAI-backed reasoning client
type OpenAIConfig struct {
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int64
	SystemPrompt string
}

// DefaultOpenAIConfig returns sensible defaults for the OpenAI client
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   100,
	}
}

// OpenAIClient is a reasoning client backed by the OpenAI chat API
type OpenAIClient struct {
	client openai.Client
	cfg    OpenAIConfig
	logger *slog.Logger
}

// Ensure OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates an OpenAI reasoning client. The API key is
// required; a missing key is a configuration error surfaced at startup,
// not a degradation discovered mid-match.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", model.ErrReasoningUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIConfig().Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultOpenAIConfig().MaxTokens
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}

	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
		logger: logger.With(slog.String("component", "reasoning-openai")),
	}, nil
}

// Reason asks the model for a parity decision. The call is abandoned as
// soon as ctx expires.
func (c *OpenAIClient) Reason(ctx context.Context, prompt string) (Decision, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.cfg.SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		return Decision{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Decision{}, errors.New("chat completion returned no choices")
	}

	decision, err := ParseDecision(completion.Choices[0].Message.Content)
	if err != nil {
		return Decision{}, err
	}

	c.logger.Info("reasoning decision",
		slog.String("choice", string(decision.Choice)),
		slog.String("reasoning", decision.Justification),
	)

	return decision, nil
}
