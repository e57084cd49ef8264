package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/learnstudio/internal/appstate"
	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/config"
	"github.com/csheth/learnstudio/internal/logging"
	"github.com/csheth/learnstudio/internal/transcript"
	"github.com/csheth/learnstudio/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "learnstudio:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Println("usage: learnstudio [-api URL] [-timeout 3m] [-transcript-file PATH] [-dark] [-no-alt-screen]")
			return nil
		}
		return err
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Sync()

	app, err := appstate.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("load app state: %w", err)
	}
	if err := applyProfile(app, cfg); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}

	var doc *transcript.Document
	if cfg.TranscriptFile != "" {
		loaded, err := transcript.Load(cfg.TranscriptFile)
		if err != nil {
			return err
		}
		doc = &loaded
	}

	client := backend.New(backend.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	logger.Info("starting",
		"endpoint", client.Endpoint(),
		"timeout", cfg.Timeout,
		"state", cfg.StatePath,
	)

	opts := []tea.ProgramOption{}
	if !cfg.NoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Backend:        client,
			App:            app,
			Logger:         logger,
			RequestTimeout: cfg.Timeout,
			StatusInterval: cfg.StatusInterval,
			Transcript:     doc,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.Error("program error", "error", err)
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// applyProfile folds the profile and theme flags into the persisted state.
func applyProfile(app *appstate.Context, cfg config.Config) error {
	switch {
	case cfg.SignOut:
		if err := app.SignOut(); err != nil {
			return err
		}
	case cfg.UserName != "" || cfg.UserEmail != "":
		if err := app.SignIn(appstate.User{Name: cfg.UserName, Email: cfg.UserEmail}); err != nil {
			return err
		}
	}
	if cfg.DarkMode && !app.Get().DarkMode {
		return app.Update(func(s *appstate.State) { s.DarkMode = true })
	}
	return nil
}
