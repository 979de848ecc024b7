package core

import (
	"context"
	"fmt"
	"log"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ModelClient is the chat-model boundary the orchestrator consumes:
// a single call that streams response fragments through chunkFn and
// returns the accumulated choice once the stream is exhausted.
type ModelClient interface {
	Generate(ctx context.Context, messages []llms.MessageContent, tools []llms.Tool, chunkFn func(string)) (*llms.ContentChoice, error)
}

type LLMService struct {
	model llms.Model
}

func NewLLMService(apiKey, modelName string) (*LLMService, error) {
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &LLMService{model: model}, nil
}

func (s *LLMService) Generate(ctx context.Context, messages []llms.MessageContent, tools []llms.Tool, chunkFn func(string)) (*llms.ContentChoice, error) {
	opts := []llms.CallOption{}
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}
	if chunkFn != nil {
		opts = append(opts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			chunkFn(string(chunk))
			return nil
		}))
	}

	resp, err := s.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0], nil
}

// CheckQuery asks the model to double-check a SQLite query for common
// mistakes and returns either the rewritten or the original query.
func (s *LLMService) CheckQuery(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(queryCheckerPrompt, query)

	resp, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("query check failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		log.Println("Query checker returned no choices, passing query through unchecked.")
		return query, nil
	}
	return resp.Choices[0].Content, nil
}
