package token

import (
	"fmt"

	"github.com/pregame-dev/pregame/auth"
	"github.com/pregame-dev/pregame/internal/cmdflags"
	"github.com/urfave/cli/v2"
)

// Cmd mints a signed passcode token for a guest. Useful to hand out
// invite links when running in passcode mode.
func Cmd() *cli.Command {
	keyEnvVar := "PREGAME_SIGNING_KEY"
	var guest string
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a signed passcode token for a guest",
		Flags: []cli.Flag{
			cmdflags.KeyEnvVar(&keyEnvVar),
			&cli.StringFlag{
				Name:        "guest",
				Aliases:     []string{"g"},
				Usage:       "Guest name to embed in the token",
				Required:    true,
				Destination: &guest,
			},
		},
		Action: func(ctx *cli.Context) error {
			key, err := auth.KeyFromEnv(keyEnvVar)
			if err != nil {
				return err
			}
			signed, err := auth.NewPasscodeValidator(key).Sign(guest)
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
}
