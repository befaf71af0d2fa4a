package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dicomconf/cmd/app/commands"
	"github.com/allisson/dicomconf/internal/device/usecase"
)

func getDeviceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-devices",
			Usage: "List the names of all configured devices",
			Flags: []cli.Flag{
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunListDevices(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "show-device",
			Usage: "Print the stored configuration of a device",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Device name",
				},
				formatFlag("yaml", "Output format: 'yaml' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, _ *slog.Logger) error {
					return commands.RunShowDevice(
						ctx,
						deviceUseCase,
						commands.DefaultIO().Writer,
						cmd.String("name"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "import-device",
			Usage: "Create or update a device from a YAML or JSON document",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path of the device document, '-' reads standard input",
				},
				&cli.StringFlag{
					Name:    "mode",
					Aliases: []string{"m"},
					Value:   commands.ImportModeSave,
					Usage:   "Write mode: 'save', 'create' or 'update'",
				},
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunImportDevice(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO(),
						cmd.String("file"),
						cmd.String("mode"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "remove-device",
			Usage: "Delete a device and release its registered names",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Device name",
				},
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunRemoveDevice(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("name"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
