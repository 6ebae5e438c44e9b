// Package openai provides the language model capability used for summary
// extraction and reply generation, with Azure OpenAI as primary provider and
// the OpenAI platform as fallback.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailreply/internal/config"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the provider answers without any choice
var ErrEmptyResponse = errors.New("no response from model")

// Prompt is one model request: a system and a user message
type Prompt struct {
	System      string
	User        string
	JSON        bool // Ask for a JSON object response
	MaxTokens   int
	Temperature float32
}

// Completer is the narrow contract the core depends on
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps go-openai with Azure OpenAI support and fallback capability
type Client struct {
	primary       chatAPI
	fallback      chatAPI
	primaryModel  string
	fallbackModel string
	providerName  string
	timeout       time.Duration
	limiter       *rate.Limiter
	logger        zerolog.Logger
}

// NewClient creates a new model client with Azure as primary and OpenAI as fallback
func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	client := &Client{
		timeout: cfg.ModelTimeout(),
		logger:  logger.With().Str("component", "openai").Logger(),
	}
	if cfg.OpenAIRate > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(cfg.OpenAIRate), 1)
	}

	if cfg.UseAzureOpenAI() {
		azureConfig := openai.DefaultAzureConfig(cfg.AzureOpenAIKey, cfg.AzureOpenAIEndpoint)
		client.primary = openai.NewClientWithConfig(azureConfig)
		client.primaryModel = cfg.AzureOpenAIGPTDeployment
		client.providerName = "Azure OpenAI"
	}

	if cfg.HasOpenAIFallback() {
		platformConfig := openai.DefaultConfig(cfg.OpenAIKey)
		if cfg.OpenAIBaseURL != "" {
			platformConfig.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
		}
		platform := openai.NewClientWithConfig(platformConfig)

		if client.primary == nil {
			client.primary = platform
			client.primaryModel = cfg.OpenAIModel
			client.providerName = "OpenAI"
		} else {
			client.fallback = platform
			client.fallbackModel = cfg.OpenAIModel
		}
	}

	if client.primary == nil {
		return nil, fmt.Errorf("no model provider configured: set AZURE_OPENAI_ENDPOINT + AZURE_OPENAI_KEY or OPENAI_API_KEY")
	}

	client.logger.Info().
		Str("provider", client.providerName).
		Str("model", client.primaryModel).
		Bool("fallback", client.fallback != nil).
		Msg("Model client ready")

	return client, nil
}

// Complete sends the prompt and returns the text of the first choice
func (c *Client) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := buildRequest(prompt, c.primaryModel)
	start := time.Now()

	resp, err := c.primary.CreateChatCompletion(ctx, req)
	if err != nil && c.fallback != nil && ctx.Err() == nil {
		c.logger.Warn().Err(err).Msg("Primary provider failed, trying fallback")
		req.Model = c.fallbackModel
		resp, err = c.fallback.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("both providers failed: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.providerName, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug().
		Str("model", req.Model).
		Bool("json", prompt.JSON).
		Int("total_tokens", resp.Usage.TotalTokens).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("Chat completion")

	return resp.Choices[0].Message.Content, nil
}

// GetProviderName returns the current primary provider name
func (c *Client) GetProviderName() string {
	return c.providerName
}

// GetGPTModel returns the model or deployment name used by the primary provider
func (c *Client) GetGPTModel() string {
	return c.primaryModel
}

func buildRequest(prompt Prompt, model string) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	}
	if prompt.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}
