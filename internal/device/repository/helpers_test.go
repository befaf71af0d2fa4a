package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
)

const (
	testBaseDN     = "dc=example,dc=com"
	testConfigName = "DICOM Configuration"
)

func newTestRepository(t *testing.T, opts ...Option) (*LDAPDeviceRepository, *directory.MemoryDirectory) {
	t.Helper()
	dir := directory.NewMemoryDirectory(testBaseDN)
	logger := newDiscardLogger()
	access := directory.NewAccess(dir.Dial, logger)
	t.Cleanup(func() { _ = access.Close() })
	repo := NewLDAPDeviceRepository(access, logger, testBaseDN, testConfigName, opts...)
	require.NoError(t, repo.EnsureConfigurationRoot(context.Background()))
	return repo, dir
}

// newTestDevice builds a device exercising every child type.
func newTestDevice(name string) *domain.Device {
	device := domain.NewDevice(name)
	device.Description = "Computed Tomography " + name
	device.Manufacturer = "ACME"
	device.SoftwareVersions = []string{"5.2.1", "build-77"}
	device.PrimaryDeviceTypes = []string{"CT"}
	device.InstitutionNames = []string{"General Hospital"}

	dicom := domain.NewConnection("dicom", "ct.example.com", 11112)
	dicomTLS := domain.NewConnection("dicom-tls", "ct.example.com", 2762)
	dicomTLS.TLSCipherSuites = []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"}
	dicomTLS.TLSProtocols = []string{"TLSv1.3", "TLSv1.2"}
	http := domain.NewConnection("http", "ct.example.com", 8080)
	http.Protocol = domain.ProtocolHTTP
	device.AddConnection(dicom)
	device.AddConnection(dicomTLS)
	device.AddConnection(http)

	ae := domain.NewApplicationEntity(name + "_AE")
	ae.Description = "storage"
	ae.AcceptedCallingAETitles = []string{"MODALITY1", "MODALITY2"}
	ae.AddConnection(dicom)
	ae.AddConnection(dicomTLS)

	storage := domain.NewTransferCapability("CT Image Storage SCP", "1.2.840.10008.5.1.4.1.1.2", domain.RoleSCP,
		"1.2.840.10008.1.2.1", "1.2.840.10008.1.2", "1.2.840.10008.1.2.4.70")
	storage.StorageOptions = &domain.StorageOptions{
		LevelOfSupport:          domain.LevelOfSupport2,
		DigitalSignatureSupport: domain.DigitalSignatureLevel1,
		ElementCoercion:         domain.ElementCoercionYes,
	}
	find := domain.NewTransferCapability("", "1.2.840.10008.5.1.4.1.2.2.1", domain.RoleSCP, "1.2.840.10008.1.2")
	find.QueryOptions = &domain.QueryOptions{Relational: true, DatetimeMatching: true}
	ae.AddTransferCapability(storage)
	ae.AddTransferCapability(find)
	device.AddApplicationEntity(ae)

	wa := domain.NewWebApplication(name+"-wado", "/dicom-web", domain.ServiceWADORS, domain.ServiceQIDORS)
	wa.AETitle = ae.AETitle
	wa.KeycloakClientID = name + "-client"
	wa.Properties = map[string]string{"WADO-RS": "true", "timeout": "30"}
	wa.AddConnection(http)
	device.AddWebApplication(wa)

	kc := domain.NewKeycloakClient(name+"-client", "https://keycloak.example.com", "dcm4che")
	kc.ClientSecret = "s3cr3t"
	device.AddKeycloakClient(kc)
	return device
}

// opCounter counts directory operations by kind.
type opCounter struct {
	mu  sync.Mutex
	ops map[string]int
}

func countOps(dir *directory.MemoryDirectory) *opCounter {
	c := &opCounter{ops: make(map[string]int)}
	dir.SetFault(func(op, _ string) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.ops[op]++
		return nil
	})
	return c
}

func (c *opCounter) count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ops[op]
}

// failNthAdd fails the nth add with an unwilling-to-perform error.
func failNthAdd(dir *directory.MemoryDirectory, n int) {
	var adds int
	dir.SetFault(func(op, _ string) error {
		if op != "add" {
			return nil
		}
		adds++
		if adds == n {
			return ldap.NewError(ldap.LDAPResultUnwillingToPerform, errors.New("injected failure"))
		}
		return nil
	})
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
