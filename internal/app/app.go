package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rvega/almacen/internal/api"
	"github.com/rvega/almacen/internal/auth"
	"github.com/rvega/almacen/internal/config"
	"github.com/rvega/almacen/internal/inventory"
	"github.com/rvega/almacen/internal/prefs"
	"github.com/rvega/almacen/internal/session"
	"github.com/rvega/almacen/internal/ui"
)

// Options configure the almacen application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/almacen/prefs.toml
}

// Run boots the almacen TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	store := session.Open(cfg.SessionPath)

	var provider auth.Provider = disabledProvider{}
	if cfg.AuthURL != "" {
		p, err := auth.NewSupabaseProvider(cfg.AuthURL, cfg.AuthAnonKey)
		if err != nil {
			return fmt.Errorf("init identity provider: %w", err)
		}
		provider = p
	}

	authSession := auth.New(store, provider)
	authSession.Restore()
	authSession.Watch(ctx)

	client, err := api.NewClient(cfg.ServerURL, store)
	if err != nil {
		return fmt.Errorf("init inventory client: %w", err)
	}

	controller := inventory.New(client)

	uiOpts := ui.Options{
		Context:     ctx,
		Session:     authSession,
		Controller:  controller,
		Invalidated: store.Subscribe(),
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// disabledProvider stands in when no auth_url is configured. A previously
// stored token keeps working; only fresh sign-ins are refused.
type disabledProvider struct{}

func (disabledProvider) SignIn(ctx context.Context, email, password string) (auth.SignInResult, error) {
	return auth.SignInResult{}, errors.New("auth_url is not configured")
}

func (disabledProvider) SignOut(ctx context.Context, token string) error {
	return nil
}
