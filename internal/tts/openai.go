package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/audio/speech"
	defaultSpeechModel    = "gpt-4o-mini-tts"
	defaultVoice          = "alloy"
)

// OpenAIOptions configures optional client behavior.
type OpenAIOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIClient implements phrases.Synthesizer using OpenAI's speech API.
type OpenAIClient struct {
	logger     *slog.Logger
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client
	endpoint   string
}

// NewOpenAIClient creates a new OpenAI speech client.
func NewOpenAIClient(logger *slog.Logger, apiKey, model, voice string, opts *OpenAIOptions) *OpenAIClient {
	if opts == nil {
		opts = &OpenAIOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	if model == "" {
		model = defaultSpeechModel
	}
	if voice == "" {
		voice = defaultVoice
	}

	endpoint := opts.BaseURL
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	return &OpenAIClient{
		logger:     logger,
		apiKey:     apiKey,
		model:      model,
		voice:      voice,
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

type speechRequest struct {
	Model  string `json:"model"`
	Voice  string `json:"voice"`
	Input  string `json:"input"`
	Format string `json:"response_format"`
}

// Synthesize converts text into MP3 audio bytes.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(speechRequest{
		Model:  c.model,
		Voice:  c.voice,
		Input:  text,
		Format: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	c.logger.Debug("calling speech API",
		slog.String("model", c.model),
		slog.String("voice", c.voice),
		slog.Int("text_length", len(text)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call openai speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := string(body)
		if readErr != nil {
			bodyStr = fmt.Sprintf("(failed to read body: %v)", readErr)
		}
		return nil, fmt.Errorf("openai speech error: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("openai speech returned empty audio")
	}

	c.logger.Debug("speech synthesis succeeded", slog.Int("audio_bytes", len(audio)))

	return audio, nil
}
