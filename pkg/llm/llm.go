// Package llm builds the OpenAI-backed completion clients. Two paths exist:
// an eino chat model used for the dashboard analysis and an SDK client used
// for the lighter verification completions.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

type LLMBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4.1-mini"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1500"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &c.Temperature,
		Timeout:     c.Timeout,
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("llm: create chat model: %w", err)
	}
	return m, nil
}

// NewClient creates the raw OpenAI SDK client from the same configuration.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}

// ChatCompleter adapts an eino chat model to the Completer contract.
type ChatCompleter struct {
	model model.ToolCallingChatModel
}

var _ contractx.Completer = (*ChatCompleter)(nil)

func NewChatCompleter(m model.ToolCallingChatModel) *ChatCompleter {
	return &ChatCompleter{model: m}
}

func (c *ChatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrUnavailable, err)
	}
	return resp.Content, nil
}

// SDKCompleter runs completions through the plain OpenAI SDK client.
type SDKCompleter struct {
	client *openaisdk.Client
	model  string
	maxTok int64
	temp   float64
}

var _ contractx.Completer = (*SDKCompleter)(nil)

func NewSDKCompleter(client *openaisdk.Client, cfg Config) *SDKCompleter {
	maxTok := int64(1500)
	if cfg.MaxCompletionToken != nil {
		maxTok = int64(*cfg.MaxCompletionToken)
	}
	return &SDKCompleter{
		client: client,
		model:  cfg.Model,
		maxTok: maxTok,
		temp:   float64(cfg.Temperature),
	}
}

func (c *SDKCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("%w: openai client is not configured", contractx.ErrValidation)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(user),
		},
		Model:               c.model,
		Temperature:         openaisdk.Float(c.temp),
		MaxCompletionTokens: openaisdk.Int(c.maxTok),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", contractx.ErrUpstreamStatus)
	}
	return resp.Choices[0].Message.Content, nil
}
