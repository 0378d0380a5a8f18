package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pregame-dev/pregame/cmd/pregame/serve"
	"github.com/pregame-dev/pregame/cmd/pregame/token"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "pregame",
		Usage: "Party and RSVP state for your guests",
		Commands: []*cli.Command{
			serve.Cmd(),
			token.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
