// Package ai produces the recommendation shown with a room's results.
package ai

import (
	"bytes"
	"context"
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/errors"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

const (
	FallbackSummary = "Could not generate summary."
	systemPrompt    = "You are an assistant who helps summarize and recommend choices."
)

var _ contract.ISummarizer = (*Summarizer)(nil)

type SummaryConfig struct {
	BaseURL   string // OpenAI compatible root, e.g. https://api.openai.com/v1
	Model     string
	APIKey    string
	Timeout   time.Duration
	MaxTokens int
}

// Summarizer calls a chat completions API. It never fails: every error degrades to FallbackSummary.
type Summarizer struct {
	httpClient *http.Client
	cfg        SummaryConfig
	log        *slog.Logger
}

func NewSummarizer(httpClient *http.Client, cfg SummaryConfig, log *slog.Logger) *Summarizer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Summarizer{httpClient: httpClient, cfg: cfg, log: log}
}

func (s *Summarizer) Summarize(ctx context.Context, question string, results []domain.CardResult) string {
	text, err := s.complete(ctx, question, results)
	if err != nil {
		s.log.Warn("Summary unavailable, using fallback", "error", err)
		return FallbackSummary
	}
	return text
}

// BuildPrompt lists every answer with its swipe counts under the question.
func BuildPrompt(question string, results []domain.CardResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the following question: '%s' and these answers with their swipe results:\n", question)
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Answer: %s, Right Swipes: %d, Left Swipes: %d", r.Title, r.RightSwipes, r.LeftSwipes)
	}
	b.WriteString("\n\nPropose a recommendation to the user on what to pick or how to decide, in a helpful but concise paragraph.")
	return b.String()
}

// systemInstruction asks for an answer in the question's language when it is clearly not English.
func systemInstruction(question string) string {
	info := whatlanggo.Detect(question)
	if info.IsReliable() && info.Lang != whatlanggo.Eng {
		return fmt.Sprintf("%s Answer in %s.", systemPrompt, info.Lang.String())
	}
	return systemPrompt
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *Summarizer) complete(ctx context.Context, question string, results []domain.CardResult) (string, error) {
	if s.cfg.APIKey == "" {
		return "", errors.ErrMissingCredential
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction(question)},
			{Role: "user", Content: BuildPrompt(question, results)},
		},
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", errors.ErrSummaryFailed, err)
	}

	endpoint := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrSummaryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrSummaryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", errors.ErrSummaryFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", errors.ErrSummaryFailed, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", errors.ErrSummaryFailed)
	}
	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", errors.ErrSummaryFailed)
	}
	return text, nil
}
