package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// VisionClient opens one streaming multimodal completion per call, feeding
// each text delta to onDelta as it arrives and returning the accumulated
// answer. The API key is caller-supplied and never stored.
type VisionClient interface {
	StreamCompletion(ctx context.Context, apiKey, prompt string, imageURLs []string, onDelta func(string)) (string, error)
}

// OpenAIVision implements VisionClient against the chat completions API.
type OpenAIVision struct {
	model     string
	maxTokens int
}

func NewOpenAIVision(model string, maxTokens int) *OpenAIVision {
	return &OpenAIVision{
		model:     model,
		maxTokens: maxTokens,
	}
}

// buildMessages assembles one logical chat turn: the prompt text first,
// then one user message per image URL.
func buildMessages(prompt string, imageURLs []string) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: prompt,
				},
			},
		},
	}

	for _, imageURL := range imageURLs {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: imageURL,
					},
				},
			},
		})
	}

	return messages
}

func (v *OpenAIVision) StreamCompletion(ctx context.Context, apiKey, prompt string, imageURLs []string, onDelta func(string)) (string, error) {
	client := openai.NewClient(apiKey)

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     v.model,
		Messages:  buildMessages(prompt, imageURLs),
		MaxTokens: v.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open completion stream: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("completion stream aborted: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	return full.String(), nil
}
