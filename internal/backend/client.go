package backend

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/csheth/learnstudio/internal/logging"
)

const (
	// DefaultBaseURL is used when no endpoint is configured.
	DefaultBaseURL = "https://ai-learning-studio-backend.onrender.com"

	videoPath      = "/process-video"
	transcriptPath = "/process-transcript"

	defaultHTTPTimeout = 3 * time.Minute
	maxResponseBytes   = 8 << 20
)

// Config describes how to reach the learning service.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client turns a video URL or a transcript into learning material.
type Client interface {
	ProcessVideo(ctx context.Context, youtubeURL string) (*LearningMaterial, error)
	ProcessTranscript(ctx context.Context, transcript, videoTitle string) (*LearningMaterial, error)
	Endpoint() string
}

// VideoRequest is the body of POST /process-video.
type VideoRequest struct {
	YoutubeURL string `json:"youtube_url"`
}

// TranscriptRequest is the body of POST /process-transcript.
type TranscriptRequest struct {
	Transcript string `json:"transcript"`
	VideoTitle string `json:"video_title"`
}

// New builds an HTTP client for the configured endpoint.
func New(cfg Config) Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &httpClient{
		base:   base,
		client: pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger: logger.With("component", "backend"),
	}
}

// NewFromEnv reads LEARNSTUDIO_API_URL (or REACT_APP_API_URL) when cfg.BaseURL is blank.
func NewFromEnv(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURLFromEnv()
	}
	return New(cfg)
}

// BaseURLFromEnv returns the configured endpoint or DefaultBaseURL.
func BaseURLFromEnv() string {
	for _, key := range []string{"LEARNSTUDIO_API_URL", "REACT_APP_API_URL"} {
		if env := strings.TrimSpace(os.Getenv(key)); env != "" {
			return strings.TrimRight(env, "/")
		}
	}
	return DefaultBaseURL
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	// Generation on the service side routinely takes longer than a minute.
	return &http.Client{Timeout: timeout}
}
