package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dicomconf/cmd/app/commands"
	"github.com/allisson/dicomconf/internal/device/usecase"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "init-config",
			Usage: "Create the configuration root and its containers when missing",
			Flags: []cli.Flag{
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunInitConfig(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO(),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "purge-config",
			Usage: "Delete the whole configuration including all devices and registries",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "force",
					Value: false,
					Usage: "Skip the confirmation prompt",
				},
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunPurgeConfig(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO(),
						cmd.Bool("force"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
