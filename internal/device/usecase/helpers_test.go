package usecase

import (
	"github.com/allisson/dicomconf/internal/device/domain"
	usecaseMocks "github.com/allisson/dicomconf/internal/device/usecase/mocks"
)

var (
	_ DeviceRepository = (*usecaseMocks.MockDeviceRepository)(nil)
	_ DeviceUseCase    = (*usecaseMocks.MockDeviceUseCase)(nil)
)

// newValidDevice returns a device that passes ValidateDevice.
func newValidDevice(name string) *domain.Device {
	device := domain.NewDevice(name)
	dicom := domain.NewConnection("dicom", "pacs.example.com", 11112)
	device.AddConnection(dicom)

	ae := domain.NewApplicationEntity("STORESCP")
	ae.AddConnection(dicom)
	ae.AddTransferCapability(domain.NewTransferCapability(
		"CT Image Storage SCP",
		"1.2.840.10008.5.1.4.1.1.2",
		domain.RoleSCP,
		"1.2.840.10008.1.2", "1.2.840.10008.1.2.1",
	))
	device.AddApplicationEntity(ae)

	wa := domain.NewWebApplication("pacs-wado", "/wado", domain.ServiceWADORS, domain.ServiceQIDORS)
	wa.AddConnection(dicom)
	device.AddWebApplication(wa)

	device.KeycloakClients = append(device.KeycloakClients,
		domain.NewKeycloakClient("pacs-client", "https://keycloak.example.com", "dcm4che"))
	return device
}
