package chat

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/routemethod/routemethod/internal/app/models"
)

// GeminiStreamer drives chat turns through the Gemini API. Each turn opens a
// fresh chat with the full session history so the server stays the single
// source of truth for conversation state.
type GeminiStreamer struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiStreamer(ctx context.Context, apiKey, model string) (*GeminiStreamer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiStreamer{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
		},
	}, nil
}

// StreamMessage sends one user message on top of history and forwards each
// text fragment to onChunk as it arrives.
func (g *GeminiStreamer) StreamMessage(ctx context.Context, history []models.Message, message string, onChunk func(text string) error) (string, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, g.config, historyContents(history))
	if err != nil {
		return "", errors.Wrap(err, "create chat session")
	}

	var full strings.Builder
	for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
		if err != nil {
			return "", errors.Wrap(err, "stream chat response")
		}
		for _, cand := range resp.Candidates {
			if cand == nil || cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part == nil || part.Text == "" {
					continue
				}
				full.WriteString(part.Text)
				if err := onChunk(part.Text); err != nil {
					return "", err
				}
			}
		}
	}
	return full.String(), nil
}

func historyContents(history []models.Message) []*genai.Content {
	if len(history) == 0 {
		return nil
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}
