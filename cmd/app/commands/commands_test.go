package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/device/usecase/mocks"
	apperrors "github.com/allisson/dicomconf/internal/errors"
)

const deviceYAML = `name: storescp
description: Storage SCP
connections:
  - name: dicom
    hostname: pacs.example.com
    port: 11112
application_entities:
  - ae_title: STORESCP
    connections: [dicom]
    transfer_capabilities:
      - sop_class: 1.2.840.10008.5.1.4.1.1.2
        role: SCP
        transfer_syntaxes: [1.2.840.10008.1.2]
`

func sampleDevice() *domain.Device {
	device := domain.NewDevice("storescp")
	device.UID = "2.25.1"
	dicom := domain.NewConnection("dicom", "pacs.example.com", 11112)
	device.AddConnection(dicom)
	ae := domain.NewApplicationEntity("STORESCP")
	ae.AddConnection(dicom)
	device.AddApplicationEntity(ae)
	return device
}

func sampleChangeLog() *domain.ChangeLog {
	changes := domain.NewChangeLog(domain.ChangeLogObjects)
	changes.Record("dicomDeviceName=storescp,cn=Devices,cn=DICOM Configuration,dc=example,dc=org", domain.ChangeCreated)
	changes.Record("dicomAETitle=STORESCP,cn=Unique AE Titles Registry,cn=DICOM Configuration,dc=example,dc=org",
		domain.ChangeCreated)
	return changes
}

func deviceNamed(name string) any {
	return mock.MatchedBy(func(d *domain.Device) bool { return d.Name == name })
}

func TestRunInitConfig(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("InitConfiguration", ctx).Return(nil)

		var out bytes.Buffer
		err := RunInitConfig(ctx, mockUseCase, logger, IOTuple{Writer: &out}, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Configuration initialized")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("InitConfiguration", ctx).Return(nil)

		var out bytes.Buffer
		err := RunInitConfig(ctx, mockUseCase, logger, IOTuple{Writer: &out}, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"initialized": true`)
	})

	t.Run("directory-error", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("InitConfiguration", ctx).Return(apperrors.ErrTransportBroken)

		err := RunInitConfig(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}}, "text")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTransportBroken)
	})

	t.Run("invalid-format", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		err := RunInitConfig(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}}, "xml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
		mockUseCase.AssertNotCalled(t, "InitConfiguration", mock.Anything)
	})
}

func TestRunPurgeConfig(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("confirmed", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("PurgeConfiguration", ctx).Return(nil)

		var out bytes.Buffer
		streams := IOTuple{Reader: strings.NewReader("yes\n"), Writer: &out}
		err := RunPurgeConfig(ctx, mockUseCase, logger, streams, false, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Type 'yes' to continue")
		assert.Contains(t, out.String(), "Configuration purged")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("declined", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		streams := IOTuple{Reader: strings.NewReader("no\n"), Writer: &bytes.Buffer{}}
		err := RunPurgeConfig(ctx, mockUseCase, logger, streams, false, "text")

		assert.ErrorIs(t, err, ErrPurgeAborted)
		mockUseCase.AssertNotCalled(t, "PurgeConfiguration", mock.Anything)
	})

	t.Run("forced", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("PurgeConfiguration", ctx).Return(nil)

		var out bytes.Buffer
		err := RunPurgeConfig(ctx, mockUseCase, logger, IOTuple{Writer: &out}, true, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"purged": true`)
		assert.NotContains(t, out.String(), "Type 'yes'")
	})

	t.Run("missing-configuration", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("PurgeConfiguration", ctx).Return(domain.ErrConfigurationNotFound)

		err := RunPurgeConfig(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}}, true, "text")

		assert.ErrorIs(t, err, domain.ErrConfigurationNotFound)
	})
}

func TestRunListDevices(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("List", ctx).Return([]string{"dcm4chee-arc", "storescp"}, nil)

		var out bytes.Buffer
		err := RunListDevices(ctx, mockUseCase, logger, &out, "text")

		require.NoError(t, err)
		assert.Equal(t, "dcm4chee-arc\nstorescp\n", out.String())
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("List", ctx).Return([]string{"storescp"}, nil)

		var out bytes.Buffer
		err := RunListDevices(ctx, mockUseCase, logger, &out, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"total": 1`)
		assert.Contains(t, out.String(), `"storescp"`)
	})

	t.Run("error", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("List", ctx).Return(nil, errors.New("boom"))

		err := RunListDevices(ctx, mockUseCase, logger, &bytes.Buffer{}, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list devices")
	})
}

func TestRunShowDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("yaml-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Get", ctx, "storescp").Return(sampleDevice(), nil)

		var out bytes.Buffer
		err := RunShowDevice(ctx, mockUseCase, &out, "storescp", "yaml")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "name: storescp")
		assert.Contains(t, out.String(), "ae_title: STORESCP")
		assert.Contains(t, out.String(), "- dicom")
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Get", ctx, "storescp").Return(sampleDevice(), nil)

		var out bytes.Buffer
		err := RunShowDevice(ctx, mockUseCase, &out, "storescp", "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"uid": "2.25.1"`)
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Get", ctx, "missing").Return(nil, domain.ErrDeviceNotFound)

		err := RunShowDevice(ctx, mockUseCase, &bytes.Buffer{}, "missing", "yaml")

		assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	})
}

func TestRunImportDevice(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("save-from-stdin-created", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Save", ctx, deviceNamed("storescp")).Return(sampleChangeLog(), true, nil)

		var out bytes.Buffer
		streams := IOTuple{Reader: strings.NewReader(deviceYAML), Writer: &out}
		err := RunImportDevice(ctx, mockUseCase, logger, streams, "-", ImportModeSave, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Device storescp created")
		assert.Contains(t, out.String(), "Created: 2, Updated: 0, Deleted: 0")
		mockUseCase.AssertExpectations(t)

		device := mockUseCase.Calls[0].Arguments.Get(1).(*domain.Device)
		ae, ok := device.ApplicationEntity("STORESCP")
		require.True(t, ok)
		require.Len(t, ae.Connections, 1)
		assert.Same(t, device.Connections[0], ae.Connections[0])
	})

	t.Run("update-from-json-file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device.json")
		doc := `{"name": "storescp", "connections": [{"name": "dicom", "hostname": "pacs", "port": 104}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Update", ctx, deviceNamed("storescp")).Return(domain.NewChangeLog(domain.ChangeLogObjects), nil)

		var out bytes.Buffer
		err := RunImportDevice(ctx, mockUseCase, logger, IOTuple{Writer: &out}, path, ImportModeUpdate, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"created": false`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("create-conflict", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Create", ctx, deviceNamed("storescp")).Return(nil, domain.ErrDeviceAlreadyExists)

		streams := IOTuple{Reader: strings.NewReader(deviceYAML), Writer: &bytes.Buffer{}}
		err := RunImportDevice(ctx, mockUseCase, logger, streams, "-", ImportModeCreate, "text")

		assert.ErrorIs(t, err, domain.ErrDeviceAlreadyExists)
	})

	t.Run("missing-name", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		streams := IOTuple{Reader: strings.NewReader("description: nameless\n"), Writer: &bytes.Buffer{}}
		err := RunImportDevice(ctx, mockUseCase, logger, streams, "-", ImportModeSave, "text")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockUseCase.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown-connection-reference", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		doc := "name: storescp\napplication_entities:\n  - ae_title: STORESCP\n    connections: [nowhere]\n"

		streams := IOTuple{Reader: strings.NewReader(doc), Writer: &bytes.Buffer{}}
		err := RunImportDevice(ctx, mockUseCase, logger, streams, "-", ImportModeSave, "text")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("malformed-document", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		streams := IOTuple{Reader: strings.NewReader("name: [unterminated"), Writer: &bytes.Buffer{}}
		err := RunImportDevice(ctx, mockUseCase, logger, streams, "-", ImportModeSave, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse device document")
	})

	t.Run("missing-file", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		err := RunImportDevice(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}},
			filepath.Join(t.TempDir(), "absent.yaml"), ImportModeSave, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read device document")
	})

	t.Run("invalid-mode", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}

		err := RunImportDevice(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}}, "-", "upsert", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mode")
	})
}

func TestRunRemoveDevice(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success", func(t *testing.T) {
		changes := domain.NewChangeLog(domain.ChangeLogObjects)
		changes.Record("dicomDeviceName=storescp,cn=Devices,cn=DICOM Configuration,dc=example,dc=org", domain.ChangeDeleted)

		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Delete", ctx, "storescp").Return(changes, nil)

		var out bytes.Buffer
		err := RunRemoveDevice(ctx, mockUseCase, logger, &out, "storescp", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Device storescp removed")
		assert.Contains(t, out.String(), "  D dicomDeviceName=storescp")
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("Delete", ctx, "missing").Return(nil, domain.ErrDeviceNotFound)

		err := RunRemoveDevice(ctx, mockUseCase, logger, &bytes.Buffer{}, "missing", "text")

		assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	})
}

func TestRegistryCommands(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("list-aets", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("ListAETitles", ctx).Return([]string{"DCM4CHEE", "STORESCP"}, nil)

		var out bytes.Buffer
		require.NoError(t, RunListAETitles(ctx, mockUseCase, &out, "text"))
		assert.Equal(t, "DCM4CHEE\nSTORESCP\n", out.String())
	})

	t.Run("register-aet", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("RegisterAETitle", ctx, "STORESCP").Return(nil)

		var out bytes.Buffer
		require.NoError(t, RunRegisterAETitle(ctx, mockUseCase, logger, &out, "STORESCP"))
		assert.Contains(t, out.String(), "AE title STORESCP registered")
	})

	t.Run("register-aet-conflict", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("RegisterAETitle", ctx, "STORESCP").Return(domain.ErrAETitleAlreadyRegistered)

		err := RunRegisterAETitle(ctx, mockUseCase, logger, &bytes.Buffer{}, "STORESCP")
		assert.ErrorIs(t, err, domain.ErrAETitleAlreadyRegistered)
	})

	t.Run("unregister-aet", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("UnregisterAETitle", ctx, "STORESCP").Return(nil)

		var out bytes.Buffer
		require.NoError(t, RunUnregisterAETitle(ctx, mockUseCase, logger, &out, "STORESCP"))
		assert.Contains(t, out.String(), "AE title STORESCP unregistered")
	})

	t.Run("show-ae", func(t *testing.T) {
		device := sampleDevice()
		ae, _ := device.ApplicationEntity("STORESCP")

		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("GetApplicationEntity", ctx, "STORESCP").Return(ae, device, nil)

		var out bytes.Buffer
		require.NoError(t, RunShowApplicationEntity(ctx, mockUseCase, &out, "STORESCP"))
		assert.Contains(t, out.String(), `"device": "storescp"`)
		assert.Contains(t, out.String(), `"ae_title": "STORESCP"`)
	})

	t.Run("list-webapps-json", func(t *testing.T) {
		mockUseCase := &mocks.MockDeviceUseCase{}
		mockUseCase.On("ListWebAppNames", ctx).Return([]string{"pacs-wado"}, nil)

		var out bytes.Buffer
		require.NoError(t, RunListWebAppNames(ctx, mockUseCase, &out, "json"))
		assert.Contains(t, out.String(), `"pacs-wado"`)
	})
}
