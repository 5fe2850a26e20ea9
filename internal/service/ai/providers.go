package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextProvider is a generative-text capability: one prompt in, raw text out.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 2048
)

// GeminiProvider wraps the Gemini client.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	temp := float32(defaultTemperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: defaultMaxOutputTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}, config)
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return "", err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	g.logger.Debug("Gemini response received",
		zap.String("model", g.model),
		zap.Int("length", len(text)))
	return text, nil
}

// OpenAIProvider wraps the OpenAI chat completion client. Returns nil when
// no API key is configured.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIProvider(apiKey, model string, logger *zap.Logger) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
		model:  model,
		logger: logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	o.logger.Info("Failover: generating with OpenAI", zap.String("model", o.model))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: chatModelFor(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(defaultMaxOutputTokens),
	})
	if err != nil {
		o.logger.Error("OpenAI generation failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	text := resp.Choices[0].Message.Content
	o.logger.Debug("OpenAI response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens))

	return text, nil
}

func chatModelFor(name string) openai.ChatModel {
	switch name {
	case "gpt-4.1":
		return openai.ChatModelGPT4_1
	case "gpt-4.1-mini":
		return openai.ChatModelGPT4_1Mini
	case "gpt-4.1-nano":
		return openai.ChatModelGPT4_1Nano
	case "gpt-4o":
		return openai.ChatModelGPT4o
	case "gpt-4o-mini":
		return openai.ChatModelGPT4oMini
	default:
		return openai.ChatModelGPT4_1Mini
	}
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
