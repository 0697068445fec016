package app

import (
	"context"
	"fmt"
	"time"

	"github.com/perchapp/perch/internal/api"
	"github.com/perchapp/perch/internal/config"
	"github.com/perchapp/perch/internal/prefs"
	"github.com/perchapp/perch/internal/session"
	"github.com/perchapp/perch/internal/ui"
)

// Options configure the Perch application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/perch/prefs.toml
	SessionPath string // empty uses default ~/.config/perch/session.toml
	Server      string // overrides the configured server address
	PollEvery   int    // seconds; zero uses the configured interval
}

// Run boots the Perch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	tokens := prefs.OpenTokens(opts.SessionPath)

	client, err := api.NewClient(cfg.Server, tokens.Current)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Session:   &session.Store{},
		Tokens:    tokens,
		Config:    &cfg,
		PollTick:  time.Duration(cfg.PollSeconds) * time.Second,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
