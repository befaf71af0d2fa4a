// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/dicomconf/internal/app"
	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/device/http/dto"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// validateFormat checks an output format flag against the accepted values.
func validateFormat(format string, accepted ...string) error {
	for _, a := range accepted {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid options: %v)", format, accepted)
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// writeNames prints one name per line, or a JSON list response.
func writeNames(w io.Writer, names []string, format string) error {
	if format == "json" {
		return writeJSON(w, dto.ListResponse{Data: names, Total: len(names)})
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(w, name)
	}
	return nil
}

// writeChangeLog prints the entries a write touched.
func writeChangeLog(w io.Writer, header string, changes *domain.ChangeLog, format string) error {
	resp := dto.MapChangeLogToResponse(changes)
	if format == "json" {
		return writeJSON(w, resp)
	}

	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintf(w, "Created: %d, Updated: %d, Deleted: %d\n", resp.Created, resp.Updated, resp.Deleted)
	for _, obj := range resp.Objects {
		_, _ = fmt.Fprintf(w, "  %s %s\n", obj.Type, obj.DN)
		for _, attr := range obj.Attributes {
			_, _ = fmt.Fprintf(w, "      %s %s %v\n", attr.Op, attr.ID, attr.Values)
		}
	}
	return nil
}
