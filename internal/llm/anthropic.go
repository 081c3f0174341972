// Package llm turns a stored chat transcript into a completion request.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/domain"
)

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("completion provider not configured")

const maxErrorBody = 512

// UpstreamError carries what the provider answered when a call fails.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion failed (status %d): %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Completion is the assistant reply to a transcript.
type Completion struct {
	Text         string
	OutputTokens int
}

// Completer produces the next assistant turn for an ordered history.
type Completer interface {
	Complete(ctx context.Context, history []domain.ChatMessage) (Completion, error)
}

// Turn is one provider-side message after merging.
type Turn struct {
	Role    domain.ChatRole
	Content string
}

// Anthropic calls the Messages API. It never retries.
type Anthropic struct {
	client anthropic.Client
	cfg    config.LLMConfig
}

// NewAnthropic returns nil when cfg carries no API key.
func NewAnthropic(cfg config.LLMConfig) *Anthropic {
	if cfg.APIKey == "" {
		return nil
	}
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout()),
	)
	return &Anthropic{client: client, cfg: cfg}
}

// Complete sends the full history, prefixed by the configured system prompt.
func (a *Anthropic) Complete(ctx context.Context, history []domain.ChatMessage) (Completion, error) {
	if a == nil {
		return Completion{}, ErrNotConfigured
	}

	system, turns := MergeTurns(a.cfg.SystemPrompt, history)
	if len(turns) == 0 {
		return Completion{}, errors.New("no user turn to complete")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.cfg.Model),
		MaxTokens:   int64(a.cfg.MaxTokens),
		Messages:    toMessageParams(turns),
		Temperature: anthropic.Float(a.cfg.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, upstreamError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return Completion{Text: strings.TrimSpace(text.String()), OutputTokens: int(msg.Usage.OutputTokens)}, nil
}

// MergeTurns folds system messages into the system prompt, joins consecutive
// same-role turns and drops assistant turns that precede the first user turn.
func MergeTurns(systemPrompt string, history []domain.ChatMessage) (string, []Turn) {
	systemParts := make([]string, 0, 1)
	if strings.TrimSpace(systemPrompt) != "" {
		systemParts = append(systemParts, strings.TrimSpace(systemPrompt))
	}

	turns := make([]Turn, 0, len(history))
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case domain.ChatRoleSystem:
			systemParts = append(systemParts, content)
			continue
		case domain.ChatRoleAssistant:
			if len(turns) == 0 {
				continue
			}
		case domain.ChatRoleUser:
		default:
			continue
		}

		if n := len(turns); n > 0 && turns[n-1].Role == msg.Role {
			turns[n-1].Content += "\n\n" + content
			continue
		}
		turns = append(turns, Turn{Role: msg.Role, Content: content})
	}
	return strings.Join(systemParts, "\n\n"), turns
}

func toMessageParams(turns []Turn) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Content)
		if t.Role == domain.ChatRoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(block))
			continue
		}
		params = append(params, anthropic.NewUserMessage(block))
	}
	return params
}

func upstreamError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{Status: apiErr.StatusCode, Body: Truncate(apiErr.Error(), maxErrorBody), Err: err}
	}
	return &UpstreamError{Body: Truncate(err.Error(), maxErrorBody), Err: err}
}

// Truncate shortens s to at most n bytes without splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
