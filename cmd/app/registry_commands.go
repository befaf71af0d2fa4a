package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dicomconf/cmd/app/commands"
	"github.com/allisson/dicomconf/internal/device/usecase"
)

func aeTitleFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "ae-title",
		Aliases:  []string{"a"},
		Required: true,
		Usage:    "Application Entity title",
	}
}

func getRegistryCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-aets",
			Usage: "List registered AE titles",
			Flags: []cli.Flag{
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, _ *slog.Logger) error {
					return commands.RunListAETitles(ctx, deviceUseCase, commands.DefaultIO().Writer, cmd.String("format"))
				})
			},
		},
		{
			Name:  "register-aet",
			Usage: "Reserve an AE title without configuring an AE",
			Flags: []cli.Flag{aeTitleFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunRegisterAETitle(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("ae-title"),
					)
				})
			},
		},
		{
			Name:  "unregister-aet",
			Usage: "Release a registered AE title",
			Flags: []cli.Flag{aeTitleFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error {
					return commands.RunUnregisterAETitle(
						ctx,
						deviceUseCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("ae-title"),
					)
				})
			},
		},
		{
			Name:  "show-ae",
			Usage: "Print the application entity with the given title and its device",
			Flags: []cli.Flag{aeTitleFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, _ *slog.Logger) error {
					return commands.RunShowApplicationEntity(
						ctx,
						deviceUseCase,
						commands.DefaultIO().Writer,
						cmd.String("ae-title"),
					)
				})
			},
		},
		{
			Name:  "list-webapps",
			Usage: "List registered web application names",
			Flags: []cli.Flag{
				formatFlag("text", "Output format: 'text' or 'json'"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDeviceUseCase(ctx, func(deviceUseCase usecase.DeviceUseCase, _ *slog.Logger) error {
					return commands.RunListWebAppNames(ctx, deviceUseCase, commands.DefaultIO().Writer, cmd.String("format"))
				})
			},
		},
	}
}
