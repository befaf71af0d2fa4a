package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/dicomconf/internal/device/http/dto"
	"github.com/allisson/dicomconf/internal/device/usecase"
)

// RunListAETitles prints every registered AE title.
func RunListAETitles(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	titles, err := deviceUseCase.ListAETitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list AE titles: %w", err)
	}
	return writeNames(writer, titles, format)
}

// RunRegisterAETitle reserves an AE title without configuring an AE.
func RunRegisterAETitle(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	title string,
) error {
	if err := deviceUseCase.RegisterAETitle(ctx, title); err != nil {
		return fmt.Errorf("failed to register AE title: %w", err)
	}

	logger.Info("AE title registered", slog.String("ae_title", title))
	_, _ = fmt.Fprintf(writer, "AE title %s registered\n", title)
	return nil
}

// RunUnregisterAETitle releases an AE title.
func RunUnregisterAETitle(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	title string,
) error {
	if err := deviceUseCase.UnregisterAETitle(ctx, title); err != nil {
		return fmt.Errorf("failed to unregister AE title: %w", err)
	}

	logger.Info("AE title unregistered", slog.String("ae_title", title))
	_, _ = fmt.Fprintf(writer, "AE title %s unregistered\n", title)
	return nil
}

// RunShowApplicationEntity prints the AE with the given title and its device name.
func RunShowApplicationEntity(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	writer io.Writer,
	title string,
) error {
	ae, device, err := deviceUseCase.GetApplicationEntity(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to get application entity: %w", err)
	}
	return writeJSON(writer, dto.ApplicationEntityResponse{
		Device:     device.Name,
		AEDocument: dto.MapApplicationEntity(ae),
	})
}

// RunListWebAppNames prints every registered web application name.
func RunListWebAppNames(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	names, err := deviceUseCase.ListWebAppNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list web application names: %w", err)
	}
	return writeNames(writer, names, format)
}
