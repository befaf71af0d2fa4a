package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/dicomconf/internal/device/usecase"
)

// ErrPurgeAborted is returned when the purge confirmation is declined.
var ErrPurgeAborted = errors.New("purge aborted")

// RunInitConfig creates the configuration root and its containers when missing.
func RunInitConfig(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	streams IOTuple,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	if err := deviceUseCase.InitConfiguration(ctx); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	logger.Info("configuration initialized")

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{"initialized": true})
	}
	_, _ = fmt.Fprintln(streams.Writer, "Configuration initialized")
	return nil
}

// RunPurgeConfig deletes the whole configuration subtree. Unless force is set
// it asks for confirmation on the command input and only proceeds on "yes".
func RunPurgeConfig(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	streams IOTuple,
	force bool,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	if !force {
		_, _ = fmt.Fprint(streams.Writer, "This deletes every device and registry entry. Type 'yes' to continue: ")
		answer, err := bufio.NewReader(streams.Reader).ReadString('\n')
		if err != nil && answer == "" {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) != "yes" {
			return ErrPurgeAborted
		}
	}

	if err := deviceUseCase.PurgeConfiguration(ctx); err != nil {
		return fmt.Errorf("failed to purge configuration: %w", err)
	}

	logger.Warn("configuration purged")

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{"purged": true})
	}
	_, _ = fmt.Fprintln(streams.Writer, "Configuration purged")
	return nil
}
