package serve

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pregame-dev/pregame/api"
	"github.com/pregame-dev/pregame/auth"
	"github.com/pregame-dev/pregame/auth/gate"
	"github.com/pregame-dev/pregame/internal/cmdflags"
	"github.com/pregame-dev/pregame/internal/config"
	"github.com/pregame-dev/pregame/internal/httpserver"
	"github.com/pregame-dev/pregame/partydb"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	configFile := "pregame.yaml"
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the party API",
		Flags: []cli.Flag{
			cmdflags.ConfigFile(&configFile),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			store, err := partydb.Open(ctx.Context, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()
			realm, err := buildRealm(cfg, store)
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, cfg.Server.Bind, api.AsHandler(store, realm))
		},
	}
}

func buildRealm(cfg *config.Config, store *partydb.Store) (*gate.Realm, error) {
	switch cfg.Auth.Mode {
	case config.ModePasscode:
		key, err := auth.KeyFromEnv(cfg.Auth.KeyEnvVar)
		if err != nil {
			return nil, err
		}
		return gate.NewRealm(auth.ExtractBearer, auth.NewPasscodeValidator(key)), nil
	case config.ModeProvider:
		var validator auth.Validator = auth.NewProviderValidator(cfg.Auth.ProviderURL, &http.Client{
			Timeout: 10 * time.Second,
		})
		if cfg.Auth.CacheTTL > 0 {
			cached, err := auth.NewCachedValidator(validator, time.Duration(cfg.Auth.CacheTTL))
			if err != nil {
				return nil, err
			}
			validator = cached
		}
		realm := gate.NewRealm(auth.ExtractProviderCookie, validator)
		return realm.WithResolver(auth.NewGuestResolver(store)), nil
	case config.ModeSession:
		return gate.NewRealm(auth.ExtractSessionCookie, auth.NewSessionValidator(store)), nil
	}
	return nil, fmt.Errorf("unknown auth mode %v", cfg.Auth.Mode)
}
