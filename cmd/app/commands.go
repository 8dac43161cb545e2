package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nubster-opensources/egide/cmd/app/commands"
)

// addrFlag and tokenFlag are shared by every client-side subcommand: they
// talk to a running vault's own HTTP API rather than the DI container
// directly.
func addrFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "addr",
		Aliases: []string{"a"},
		Value:   commands.DefaultAddr,
		Usage:   "Address of the egide server",
		Sources: cli.EnvVars(commands.AddrEnvVar),
	}
}

func tokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "Root token used to authenticate the request",
		Sources: cli.EnvVars(commands.TokenEnvVar),
	}
}

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getServerCommand())
	cmds = append(cmds, getOperatorCommand())
	cmds = append(cmds, getStatusCommand())
	cmds = append(cmds, getSecretsCommand())
	return cmds
}

func getServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Host:port to bind the HTTP server to (overrides SERVER_HOST/SERVER_PORT)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory storing the vault's per-tenant SQLite files (overrides DATA_DIR)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Run in dev mode: auto-initialize and auto-unseal with a master key stored in plaintext in the data directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServerFlagOverrides(cmd)
			return commands.RunServer(ctx, appVersion)
		},
	}
}

// applyServerFlagOverrides maps server-only CLI flags onto the process
// environment before config.Load reads it, so explicit flags win over
// whatever variables happen to already be set.
func applyServerFlagOverrides(cmd *cli.Command) {
	if addr := cmd.String("addr"); addr != "" {
		host, port, ok := strings.Cut(addr, ":")
		if ok {
			_ = os.Setenv("SERVER_HOST", host)
			_ = os.Setenv("SERVER_PORT", port)
		}
	}
	if dataDir := cmd.String("data-dir"); dataDir != "" {
		_ = os.Setenv("DATA_DIR", dataDir)
	}
	if cmd.Bool("dev") {
		_ = os.Setenv("DEV_MODE", "true")
	}
}

func getOperatorCommand() *cli.Command {
	return &cli.Command{
		Name:  "operator",
		Usage: "Manage the vault's seal state",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize the vault and generate its master key shares",
				Flags: []cli.Flag{
					addrFlag(),
					&cli.IntFlag{
						Name:  "shares",
						Value: 5,
						Usage: "Total number of key shares to generate",
					},
					&cli.IntFlag{
						Name:  "threshold",
						Value: 3,
						Usage: "Number of shares required to unseal",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunOperatorInit(ctx, os.Stdout, cmd.String("addr"), int(cmd.Int("shares")), int(cmd.Int("threshold")))
				},
			},
			{
				Name:  "unseal",
				Usage: "Submit one unseal key share",
				Flags: []cli.Flag{
					addrFlag(),
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Required: true,
						Usage:    "Hex-encoded unseal key share",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunOperatorUnseal(ctx, os.Stdout, cmd.String("addr"), cmd.String("key"))
				},
			},
			{
				Name:  "seal",
				Usage: "Seal the vault, discarding the in-memory master key",
				Flags: []cli.Flag{
					addrFlag(),
					tokenFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunOperatorSeal(ctx, os.Stdout, cmd.String("addr"), cmd.String("token"))
				},
			},
		},
	}
}

func getStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the vault's initialization and seal status",
		Flags: []cli.Flag{
			addrFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return commands.RunStatus(ctx, os.Stdout, cmd.String("addr"))
		},
	}
}

func getSecretsCommand() *cli.Command {
	return &cli.Command{
		Name:  "secrets",
		Usage: "Read and write secrets",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Read a secret's current version",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{addrFlag(), tokenFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := requirePathArg(cmd)
					if err != nil {
						return err
					}
					return commands.RunSecretsGet(ctx, os.Stdout, cmd.String("addr"), cmd.String("token"), path)
				},
			},
			{
				Name:      "put",
				Usage:     "Write a new secret version",
				ArgsUsage: "<path> key=value [key=value ...]",
				Flags:     []cli.Flag{addrFlag(), tokenFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := requirePathArg(cmd)
					if err != nil {
						return err
					}
					data, err := parseKeyValueArgs(cmd.Args().Slice()[1:])
					if err != nil {
						return err
					}
					return commands.RunSecretsPut(ctx, os.Stdout, cmd.String("addr"), cmd.String("token"), path, data)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a secret",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{addrFlag(), tokenFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := requirePathArg(cmd)
					if err != nil {
						return err
					}
					return commands.RunSecretsDelete(ctx, os.Stdout, cmd.String("addr"), cmd.String("token"), path)
				},
			},
			{
				Name:  "list",
				Usage: "List every stored secret path",
				Flags: []cli.Flag{addrFlag(), tokenFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSecretsList(ctx, os.Stdout, cmd.String("addr"), cmd.String("token"))
				},
			},
		},
	}
}

func requirePathArg(cmd *cli.Command) (string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return "", fmt.Errorf("missing required <path> argument")
	}
	return args[0], nil
}

func parseKeyValueArgs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("at least one key=value pair is required")
	}
	data := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		data[key] = value
	}
	return data, nil
}
