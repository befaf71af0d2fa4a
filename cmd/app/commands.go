package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dicomconf/internal/app"
	"github.com/allisson/dicomconf/internal/config"
	"github.com/allisson/dicomconf/internal/device/usecase"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getDeviceCommands()...)
	cmds = append(cmds, getRegistryCommands()...)
	return cmds
}

// formatFlag is the output format flag shared by most commands.
func formatFlag(def string, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   def,
		Usage:   usage,
	}
}

// withDeviceUseCase builds a container from the environment, hands the device
// use case to fn and shuts the container down afterwards.
func withDeviceUseCase(
	ctx context.Context,
	fn func(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) error,
) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	deviceUseCase, err := container.DeviceUseCase()
	if err != nil {
		return err
	}
	return fn(deviceUseCase, container.Logger())
}
