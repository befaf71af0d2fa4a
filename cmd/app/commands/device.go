package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/device/http/dto"
	"github.com/allisson/dicomconf/internal/device/usecase"
	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// Import modes.
const (
	ImportModeSave   = "save"
	ImportModeCreate = "create"
	ImportModeUpdate = "update"
)

// RunListDevices prints the names of all configured devices.
func RunListDevices(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	names, err := deviceUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	logger.Debug("devices listed", slog.Int("count", len(names)))
	return writeNames(writer, names, format)
}

// RunShowDevice prints the stored configuration of one device as YAML or JSON.
// The output is accepted by RunImportDevice.
func RunShowDevice(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format, "yaml", "json"); err != nil {
		return err
	}

	device, err := deviceUseCase.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get device: %w", err)
	}

	doc := dto.MapDeviceToDocument(device)
	if format == "json" {
		return writeJSON(writer, doc)
	}

	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// RunImportDevice reads a device document from path ("-" reads the command input),
// converts it and writes it to the directory according to mode.
// JSON documents are read by the same YAML decoder.
func RunImportDevice(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	streams IOTuple,
	path string,
	mode string,
	format string,
) error {
	if err := validateFormat(mode, ImportModeSave, ImportModeCreate, ImportModeUpdate); err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	data, err := readDocument(streams, path)
	if err != nil {
		return err
	}

	var req dto.SaveDeviceRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse device document: %w", err)
	}
	if err := req.Validate(); err != nil {
		return customValidation.WrapValidationError(err)
	}

	device, err := req.ToDomain()
	if err != nil {
		return err
	}

	var (
		changes *domain.ChangeLog
		created bool
	)
	switch mode {
	case ImportModeCreate:
		changes, err = deviceUseCase.Create(ctx, device)
		created = err == nil
	case ImportModeUpdate:
		changes, err = deviceUseCase.Update(ctx, device)
	default:
		changes, created, err = deviceUseCase.Save(ctx, device)
	}
	if err != nil {
		return fmt.Errorf("failed to import device: %w", err)
	}

	logger.Info("device imported",
		slog.String("name", device.Name),
		slog.String("mode", mode),
		slog.Bool("created", created),
	)

	if format == "json" {
		return writeJSON(streams.Writer, dto.MapSaveDeviceResponse(device, created, changes))
	}

	header := fmt.Sprintf("Device %s updated", device.Name)
	if created {
		header = fmt.Sprintf("Device %s created (UID %s)", device.Name, device.UID)
	}
	return writeChangeLog(streams.Writer, header, changes, format)
}

// RunRemoveDevice deletes a device and releases its registered names.
func RunRemoveDevice(
	ctx context.Context,
	deviceUseCase usecase.DeviceUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format, "text", "json"); err != nil {
		return err
	}

	changes, err := deviceUseCase.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to remove device: %w", err)
	}

	logger.Info("device removed", slog.String("name", name))
	return writeChangeLog(writer, fmt.Sprintf("Device %s removed", name), changes, format)
}

func readDocument(streams IOTuple, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(streams.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read device document: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read device document: %w", err)
	}
	return data, nil
}
