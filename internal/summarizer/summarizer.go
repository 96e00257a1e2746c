package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Options configure the OpenRouter-backed summarizer. SiteURL and SiteName
// are optional attribution headers OpenRouter recognizes.
type Options struct {
	APIKey   string
	Model    string
	BaseURL  string
	SiteURL  string
	SiteName string
}

// Summarizer turns a prompt file into a summary file through an
// OpenAI-compatible chat-completion endpoint.
type Summarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// headerTransport injects static headers into every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

func New(opts Options, logger *zap.Logger) *Summarizer {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	headers := make(map[string]string)
	if opts.SiteURL != "" {
		headers["HTTP-Referer"] = opts.SiteURL
	}
	if opts.SiteName != "" {
		headers["X-Title"] = opts.SiteName
	}
	if len(headers) > 0 {
		cfg.HTTPClient = &http.Client{
			Transport: &headerTransport{base: http.DefaultTransport, headers: headers},
		}
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		logger: logger,
	}
}

// SummarizePromptFile sends the prompt file's content for completion and
// writes the result next to it as summary_<name>.
func (s *Summarizer) SummarizePromptFile(ctx context.Context, promptPath string) (string, error) {
	content, err := os.ReadFile(promptPath)
	if err != nil {
		return "", fmt.Errorf("reading prompt file: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: string(content),
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("requesting summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary response contained no choices")
	}

	summaryPath := filepath.Join(filepath.Dir(promptPath), "summary_"+filepath.Base(promptPath))
	if err := os.WriteFile(summaryPath, []byte(resp.Choices[0].Message.Content), 0o644); err != nil {
		return "", fmt.Errorf("writing summary file: %w", err)
	}

	s.logger.Debug("Created summary file",
		zap.String("prompt", promptPath),
		zap.String("summary", summaryPath))
	return summaryPath, nil
}
