package domain

import (
	"github.com/allisson/dicomconf/internal/errors"
)

// Device configuration error definitions.
var (
	// ErrDeviceNotFound indicates no device with the requested name exists.
	ErrDeviceNotFound = errors.Wrap(errors.ErrNotFound, "device not found")

	// ErrDeviceAlreadyExists indicates a device with the same name is already configured.
	ErrDeviceAlreadyExists = errors.Wrap(errors.ErrAlreadyExists, "device already exists")

	// ErrAETitleNotFound indicates no AE with the requested title is configured.
	ErrAETitleNotFound = errors.Wrap(errors.ErrNotFound, "AE title not found")

	// ErrAETitleAlreadyRegistered indicates the AE title is claimed by another AE.
	ErrAETitleAlreadyRegistered = errors.Wrap(errors.ErrAlreadyExists, "AE title already registered")

	// ErrWebAppNotFound indicates no web application with the requested name is configured.
	ErrWebAppNotFound = errors.Wrap(errors.ErrNotFound, "web application not found")

	// ErrWebAppNameAlreadyRegistered indicates the web application name is claimed by another device.
	ErrWebAppNameAlreadyRegistered = errors.Wrap(errors.ErrAlreadyExists, "web application name already registered")

	// ErrRegistrationsNotReleased indicates a write was applied but names it no
	// longer uses are still claimed in a uniqueness registry.
	ErrRegistrationsNotReleased = errors.Wrap(errors.ErrConfiguration, "registered names not released")

	// ErrConfigurationNotFound indicates the configuration root does not exist.
	ErrConfigurationNotFound = errors.Wrap(errors.ErrNotFound, "configuration not found")
)
