package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"phrasecast/internal/phrases"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultChatModel      = "gpt-4o-mini"
	defaultTemperature    = 0.2

	// The provider is asked for a JSON object with exactly these two fields.
	systemPrompt = `日本語を自然で丁寧な口語フランス語に訳し、発音カタカナも返す。必ずJSON：{"fr":"...","kana":"..."}`
)

// OpenAIOptions allows overriding HTTP behavior.
type OpenAIOptions struct {
	BaseURL     string
	HTTPClient  *http.Client
	Temperature float64
}

// OpenAIClient implements phrases.Translator against OpenAI's Chat Completions API.
type OpenAIClient struct {
	logger      *slog.Logger
	apiKey      string
	model       string
	endpoint    string
	httpClient  *http.Client
	temperature float64
}

// NewOpenAIClient constructs a new OpenAIClient.
func NewOpenAIClient(logger *slog.Logger, apiKey, model string, opts *OpenAIOptions) *OpenAIClient {
	if opts == nil {
		opts = &OpenAIOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 45 * time.Second,
		}
	}

	endpoint := opts.BaseURL
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	if model == "" {
		model = defaultChatModel
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &OpenAIClient{
		logger:      logger,
		apiKey:      apiKey,
		model:       model,
		endpoint:    endpoint,
		httpClient:  httpClient,
		temperature: temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type translationJSON struct {
	FR   string `json:"fr"`
	Kana string `json:"kana"`
}

// Translate sends the source phrase to OpenAI and decodes the structured
// reply. A reply that is not valid JSON is still used: the raw text becomes
// the translation with an empty phonetic hint, since a usable translation
// beats a hard failure.
func (c *OpenAIClient) Translate(ctx context.Context, sourceText string) (phrases.Translation, error) {
	reqPayload := completionRequest{
		Model:          c.model,
		Temperature:    c.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: sourceText},
		},
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return phrases.Translation{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return phrases.Translation{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return phrases.Translation{}, fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return phrases.Translation{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return phrases.Translation{}, fmt.Errorf("openai error: status=%d body=%s", resp.StatusCode, truncate(respBody, 512))
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return phrases.Translation{}, fmt.Errorf("decode response: %w body=%s", err, truncate(respBody, 256))
	}

	if completion.Error != nil {
		return phrases.Translation{}, fmt.Errorf("openai error: %s (%s)", completion.Error.Message, completion.Error.Type)
	}

	if len(completion.Choices) == 0 {
		return phrases.Translation{}, fmt.Errorf("openai returned no choices")
	}

	raw := stripCodeFence(strings.TrimSpace(completion.Choices[0].Message.Content))

	return c.decodeReply(raw), nil
}

// decodeReply resolves the provider reply into a Translation: the parsed
// two-field object when the reply is valid JSON, otherwise the raw text with
// no phonetic hint.
func (c *OpenAIClient) decodeReply(raw string) phrases.Translation {
	var parsed translationJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Warn("unstructured translation reply, using raw text",
			slog.String("error", err.Error()),
			slog.Int("reply_length", len(raw)),
		)
		return phrases.Translation{Text: raw}
	}

	return phrases.Translation{
		Text:     strings.TrimSpace(parsed.FR),
		Phonetic: strings.TrimSpace(parsed.Kana),
	}
}

func stripCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		if idx := strings.Index(v, "\n"); idx != -1 {
			v = v[idx+1:]
		}
		v = strings.TrimSuffix(v, "```")
	}
	return strings.TrimSpace(v)
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "…"
}
