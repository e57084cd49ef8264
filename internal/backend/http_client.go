package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/csheth/learnstudio/internal/logging"
)

type httpClient struct {
	base   string
	client *http.Client
	logger *logging.Logger
}

func (c *httpClient) Endpoint() string {
	return c.base
}

func (c *httpClient) ProcessVideo(ctx context.Context, youtubeURL string) (*LearningMaterial, error) {
	return c.post(ctx, videoPath, VideoRequest{YoutubeURL: youtubeURL})
}

func (c *httpClient) ProcessTranscript(ctx context.Context, transcript, videoTitle string) (*LearningMaterial, error) {
	return c.post(ctx, transcriptPath, TranscriptRequest{Transcript: transcript, VideoTitle: videoTitle})
}

func (c *httpClient) post(ctx context.Context, path string, payload any) (*LearningMaterial, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "path", path, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	c.logger.Info("response received",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(started),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}

	var material LearningMaterial
	if err := json.Unmarshal(body, &material); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return &material, nil
}

// APIError is a non-2xx answer from the learning service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

// parseDetail extracts the human readable "detail" field. Validation failures
// carry a list of {msg} objects instead of a string.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		messages := make([]string, 0, len(items))
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				messages = append(messages, msg)
			}
		}
		return strings.Join(messages, "; ")
	}
	return ""
}
