package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-ldap/ldap/v3"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	"github.com/allisson/dicomconf/internal/ldapcodec"
)

// LoadContext tracks the devices and connections materialized by one
// top-level load. A device referenced again while it is still being loaded
// resolves to the same, possibly incomplete, instance, so reference cycles
// between devices terminate.
type LoadContext struct {
	repo        *LDAPDeviceRepository
	devices     map[string]*domain.Device
	connections map[string]*domain.Connection
}

func (r *LDAPDeviceRepository) newLoadContext() *LoadContext {
	return &LoadContext{
		repo:        r,
		devices:     make(map[string]*domain.Device),
		connections: make(map[string]*domain.Connection),
	}
}

// Session returns the session extensions use for additional lookups.
func (lc *LoadContext) Session() *Session {
	return lc.repo.session(nil)
}

// LoadDevice loads the device stored at dn within this load.
func (lc *LoadContext) LoadDevice(ctx context.Context, dn string) (*domain.Device, error) {
	return lc.repo.loadDevice(ctx, lc, dn)
}

// Connection resolves a connection reference. References into other devices
// are fetched and marked with their DN.
func (lc *LoadContext) Connection(ctx context.Context, dn string) (*domain.Connection, error) {
	if conn, ok := lc.connections[dnKey(dn)]; ok {
		return conn, nil
	}
	entry, found, err := lc.repo.access.Get(ctx, dn)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: dangling connection reference %s", apperrors.ErrConfiguration, dn)
	}
	conn := loadConnection(entry.Attributes)
	conn.ExternalDN = dn
	lc.connections[dnKey(dn)] = conn
	return conn, nil
}

// FindDevice loads the device named name with all its children.
func (r *LDAPDeviceRepository) FindDevice(ctx context.Context, name string) (*domain.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.configurationExists(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check configuration root")
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, name)
	}
	return r.loadDevice(ctx, r.newLoadContext(), r.roots.DeviceDN(name))
}

// FindApplicationEntity returns the AE with the given title and the device
// that owns it.
func (r *LDAPDeviceRepository) FindApplicationEntity(
	ctx context.Context,
	title string,
) (*domain.ApplicationEntity, *domain.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, err := r.findOwner(ctx, ocNetworkAE, attrAETitle, title, domain.ErrAETitleNotFound)
	if err != nil {
		return nil, nil, err
	}
	ae, ok := device.ApplicationEntity(title)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrAETitleNotFound, title)
	}
	return ae, device, nil
}

// FindWebApplication returns the web application with the given name and the
// device that owns it.
func (r *LDAPDeviceRepository) FindWebApplication(
	ctx context.Context,
	name string,
) (*domain.WebApplication, *domain.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, err := r.findOwner(ctx, ocWebApp, attrWebAppName, name, domain.ErrWebAppNotFound)
	if err != nil {
		return nil, nil, err
	}
	wa, ok := device.WebApplication(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrWebAppNotFound, name)
	}
	return wa, device, nil
}

// ListDeviceNames returns the names of all configured devices, sorted.
func (r *LDAPDeviceRepository) ListDeviceNames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listValues(ctx, r.roots.Devices, ocDevice, attrDeviceName)
}

// findOwner loads the device holding a child entry of objectClass whose attr equals value.
func (r *LDAPDeviceRepository) findOwner(
	ctx context.Context,
	objectClass, attr, value string,
	notFound error,
) (*domain.Device, error) {
	filter := fmt.Sprintf("(&%s(%s=%s))", filterObjectClass(objectClass), attr, ldap.EscapeFilter(value))
	entries, err := r.access.Search(ctx, r.roots.Devices, directory.ScopeSubtree, filter, directory.NoAttributes)
	if apperrors.Is(err, apperrors.ErrNotFound) || (err == nil && len(entries) == 0) {
		return nil, fmt.Errorf("%w: %s", notFound, value)
	}
	if err != nil {
		return nil, err
	}
	deviceName, err := rdnValue(entries[0].DN, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfiguration, err)
	}
	return r.loadDevice(ctx, r.newLoadContext(), r.roots.DeviceDN(deviceName))
}

func (r *LDAPDeviceRepository) loadDevice(ctx context.Context, lc *LoadContext, dn string) (*domain.Device, error) {
	key := dnKey(dn)
	if device, ok := lc.devices[key]; ok {
		return device, nil
	}

	entry, found, err := r.access.Get(ctx, dn)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load device %s", dn)
	}
	if !found {
		name, _ := rdnValue(dn, 0)
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, name)
	}

	device := &domain.Device{}
	lc.devices[key] = device

	authorized, thisNode := loadDeviceAttributes(device, entry.Attributes)
	for _, ref := range authorized {
		device.SetAuthorizedNodeCertificates(ref, r.loadReferencedCertificates(ctx, ref)...)
	}
	for _, ref := range thisNode {
		device.SetThisNodeCertificates(ref, r.loadReferencedCertificates(ctx, ref)...)
	}
	for _, ext := range r.extensions {
		if err := ext.LoadFrom(ctx, lc, device, entry.Attributes); err != nil {
			return nil, apperrors.Wrapf(err, "extension %s failed to load device %s", ext.Name(), dn)
		}
	}

	if err := r.loadConnections(ctx, lc, dn, device); err != nil {
		return nil, apperrors.Wrapf(err, "failed to load connections of %s", dn)
	}
	if err := r.loadApplicationEntities(ctx, lc, dn, device); err != nil {
		return nil, apperrors.Wrapf(err, "failed to load application entities of %s", dn)
	}
	if err := r.loadWebApplications(ctx, lc, dn, device); err != nil {
		return nil, apperrors.Wrapf(err, "failed to load web applications of %s", dn)
	}
	if err := r.loadKeycloakClients(ctx, dn, device); err != nil {
		return nil, apperrors.Wrapf(err, "failed to load keycloak clients of %s", dn)
	}
	for _, ext := range r.extensions {
		if err := ext.LoadChilds(ctx, lc, dn, device); err != nil {
			return nil, apperrors.Wrapf(err, "extension %s failed to load children of %s", ext.Name(), dn)
		}
	}
	return device, nil
}

// loadReferencedCertificates tolerates missing holders; the reference is kept
// without content.
func (r *LDAPDeviceRepository) loadReferencedCertificates(ctx context.Context, dn string) [][]byte {
	certs, err := r.loadCertificates(ctx, dn)
	if err != nil {
		r.logger.Warn("failed to load referenced certificates",
			slog.String("dn", dn),
			slog.Any("error", err),
		)
		return nil
	}
	return certs
}

func (r *LDAPDeviceRepository) childEntries(ctx context.Context, dn, objectClass string) ([]*directory.Entry, error) {
	return r.access.Search(ctx, dn, directory.ScopeOneLevel, filterObjectClass(objectClass))
}

func (r *LDAPDeviceRepository) loadConnections(ctx context.Context, lc *LoadContext, deviceDN string, device *domain.Device) error {
	entries, err := r.childEntries(ctx, deviceDN, ocNetworkConnection)
	if err != nil {
		return err
	}
	for _, e := range entries {
		conn := loadConnection(e.Attributes)
		lc.connections[dnKey(e.DN)] = conn
		device.AddConnection(conn)
	}
	return nil
}

func (r *LDAPDeviceRepository) loadApplicationEntities(
	ctx context.Context,
	lc *LoadContext,
	deviceDN string,
	device *domain.Device,
) error {
	entries, err := r.childEntries(ctx, deviceDN, ocNetworkAE)
	if err != nil {
		return err
	}
	for _, e := range entries {
		ae := loadApplicationEntity(e.Attributes)
		for _, ref := range ldapcodec.Strings(e.Attributes, attrNetworkConnectionRef) {
			conn, err := lc.Connection(ctx, ref)
			if err != nil {
				return err
			}
			ae.AddConnection(conn)
		}
		tcs, err := r.childEntries(ctx, e.DN, ocTransferCapability)
		if err != nil {
			return err
		}
		for _, tc := range tcs {
			ae.AddTransferCapability(loadTransferCapability(tc.Attributes))
		}
		device.AddApplicationEntity(ae)
	}
	return nil
}

func (r *LDAPDeviceRepository) loadWebApplications(
	ctx context.Context,
	lc *LoadContext,
	deviceDN string,
	device *domain.Device,
) error {
	entries, err := r.childEntries(ctx, deviceDN, ocWebApp)
	if err != nil {
		return err
	}
	for _, e := range entries {
		wa := loadWebApplication(e.Attributes)
		for _, ref := range ldapcodec.Strings(e.Attributes, attrNetworkConnectionRef) {
			conn, err := lc.Connection(ctx, ref)
			if err != nil {
				return err
			}
			wa.AddConnection(conn)
		}
		device.AddWebApplication(wa)
	}
	return nil
}

func (r *LDAPDeviceRepository) loadKeycloakClients(ctx context.Context, deviceDN string, device *domain.Device) error {
	entries, err := r.childEntries(ctx, deviceDN, ocKeycloakClient)
	if err != nil {
		return err
	}
	for _, e := range entries {
		device.AddKeycloakClient(loadKeycloakClient(e.Attributes))
	}
	return nil
}
