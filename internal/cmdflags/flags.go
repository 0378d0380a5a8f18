package cmdflags

import (
	"github.com/urfave/cli/v2"
)

func ConfigFile(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to the YAML config file",
		Destination: out,
		Value:       *out,
	}
}

func KeyEnvVar(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "key-envvar-name",
		Usage:       "Name of the environment variable that holds the signing key. The key itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
