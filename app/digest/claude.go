package digest

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

//go:embed digest_prompt.txt
var digestPrompt string

// ClaudeSummarizer implements Summarizer against the Anthropic Messages API.
type ClaudeSummarizer struct {
	client anthropic.Client
}

func NewClaudeSummarizer(apiKey string) *ClaudeSummarizer {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	return &ClaudeSummarizer{
		client: anthropic.NewClient(opts...),
	}
}

func (s *ClaudeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaudeHaiku4_5,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{{
			Text: digestPrompt,
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		out.WriteString(block.Text)
	}

	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("claude returned an empty response")
	}

	return out.String(), nil
}
