package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/status"
)

const (
	envAPIURL         = "LEARNSTUDIO_API_URL"
	envLegacyAPIURL   = "REACT_APP_API_URL"
	envTimeout        = "LEARNSTUDIO_TIMEOUT"
	envStatusInterval = "LEARNSTUDIO_STATUS_INTERVAL"
	envStatePath      = "LEARNSTUDIO_STATE"
	envLogPath        = "LEARNSTUDIO_LOG_FILE"
	envLogLevel       = "LEARNSTUDIO_LOG_LEVEL"
	envDotenv         = "LEARNSTUDIO_ENV_FILE"

	defaultTimeout = 3 * time.Minute
	appDir         = "learnstudio"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIBaseURL     string
	Timeout        time.Duration
	StatusInterval time.Duration
	StatePath      string
	LogPath        string
	LogLevel       string
	TranscriptFile string
	NoAltScreen    bool
	DarkMode       bool
	UserName       string
	UserEmail      string
	SignOut        bool
}

// Load resolves flags, then the process environment, then the dotenv file,
// then defaults. A missing dotenv file is not an error.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("learnstudio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", "", "learning service base URL")
	timeout := fs.Duration("timeout", 0, "request timeout (eg. 90s, 3m)")
	statePath := fs.String("state", "", "path to the app state JSON file")
	logPath := fs.String("log-file", "", "path to the log file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	transcriptFile := fs.String("transcript-file", "", "preload a transcript from a .txt, .md, .pdf, .srt or .vtt file")
	envFile := fs.String("env-file", "", "dotenv file to read (default .env)")
	noAltScreen := fs.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	dark := fs.Bool("dark", false, "switch to the dark theme and remember it")
	userName := fs.String("user-name", "", "display name to greet")
	userEmail := fs.String("user-email", "", "email of the signed-in learner")
	signOut := fs.Bool("sign-out", false, "forget the stored learner profile")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	dotenvPath := firstNonEmpty(*envFile, os.Getenv(envDotenv), ".env")
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || *envFile != "" {
			return Config{}, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		dotenv = map[string]string{}
	}
	// lookup resolves keys in order against the process environment, and
	// only then against the dotenv file.
	lookup := func(keys ...string) string {
		for _, key := range keys {
			if value := strings.TrimSpace(os.Getenv(key)); value != "" {
				return value
			}
		}
		for _, key := range keys {
			if value := strings.TrimSpace(dotenv[key]); value != "" {
				return value
			}
		}
		return ""
	}

	cfg := Config{
		APIBaseURL:     firstNonEmpty(*apiURL, lookup(envAPIURL, envLegacyAPIURL), backend.DefaultBaseURL),
		StatePath:      firstNonEmpty(*statePath, lookup(envStatePath), defaultPath(os.UserConfigDir, "state.json")),
		LogPath:        firstNonEmpty(*logPath, lookup(envLogPath), defaultPath(os.UserCacheDir, "learnstudio.log")),
		LogLevel:       firstNonEmpty(*logLevel, lookup(envLogLevel), "info"),
		TranscriptFile: strings.TrimSpace(*transcriptFile),
		NoAltScreen:    *noAltScreen,
		DarkMode:       *dark,
		UserName:       strings.TrimSpace(*userName),
		UserEmail:      strings.TrimSpace(*userEmail),
		SignOut:        *signOut,
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	cfg.Timeout = *timeout
	if cfg.Timeout <= 0 {
		if cfg.Timeout, err = durationOr(lookup(envTimeout), defaultTimeout); err != nil {
			return Config{}, fmt.Errorf("%s: %w", envTimeout, err)
		}
	}
	if cfg.StatusInterval, err = durationOr(lookup(envStatusInterval), status.DefaultInterval); err != nil {
		return Config{}, fmt.Errorf("%s: %w", envStatusInterval, err)
	}
	return cfg, nil
}

func durationOr(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return value, nil
}

func defaultPath(base func() (string, error), name string) string {
	dir, err := base()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir, name)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
