// Package objectstore persists audio artifacts in Supabase Storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SupabaseOptions configures optional client behavior.
type SupabaseOptions struct {
	HTTPClient *http.Client
}

// SupabaseClient implements phrases.ObjectStore against the Supabase Storage API.
type SupabaseClient struct {
	logger     *slog.Logger
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseClient creates a storage client for one bucket.
func NewSupabaseClient(logger *slog.Logger, baseURL, serviceKey, bucket string, opts *SupabaseOptions) *SupabaseClient {
	if opts == nil {
		opts = &SupabaseOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &SupabaseClient{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: httpClient,
	}
}

// Upload stores data under name in the bucket. Uploads never overwrite: a
// name collision is surfaced as an error (x-upsert is off).
func (c *SupabaseClient) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call supabase storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := string(body)
		if readErr != nil {
			bodyStr = fmt.Sprintf("(failed to read body: %v)", readErr)
		}
		return fmt.Errorf("supabase storage error: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	c.logger.Debug("object uploaded",
		slog.String("bucket", c.bucket),
		slog.String("object", name),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// PublicURL derives the public URL for an object in the bucket. It is a pure
// string derivation; with no base URL configured it returns an empty string.
func (c *SupabaseClient) PublicURL(name string) string {
	if c.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, name)
}
