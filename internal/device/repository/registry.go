package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// RegisterAETitle claims title in the AE title registry. The wildcard title
// is never registered.
func (r *LDAPDeviceRepository) RegisterAETitle(ctx context.Context, title string) error {
	if title == domain.Wildcard {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureRoots(ctx); err != nil {
		return err
	}
	return r.claim(ctx, r.roots.AETitleDN(title), ocUniqueAETitle, attrAETitle, title,
		domain.ErrAETitleAlreadyRegistered)
}

// UnregisterAETitle releases title. Releasing an unclaimed title is not an error.
func (r *LDAPDeviceRepository) UnregisterAETitle(ctx context.Context, title string) error {
	if title == domain.Wildcard {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.release(ctx, r.roots.AETitleDN(title))
}

// RegisterWebAppName claims name in the web application name registry.
func (r *LDAPDeviceRepository) RegisterWebAppName(ctx context.Context, name string) error {
	if name == domain.Wildcard {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureRoots(ctx); err != nil {
		return err
	}
	return r.claim(ctx, r.roots.WebAppNameDN(name), ocUniqueWebAppName, attrWebAppName, name,
		domain.ErrWebAppNameAlreadyRegistered)
}

// UnregisterWebAppName releases name.
func (r *LDAPDeviceRepository) UnregisterWebAppName(ctx context.Context, name string) error {
	if name == domain.Wildcard {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.release(ctx, r.roots.WebAppNameDN(name))
}

// ListRegisteredAETitles returns every claimed AE title, sorted.
func (r *LDAPDeviceRepository) ListRegisteredAETitles(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listValues(ctx, r.roots.AETitlesRegistry, ocUniqueAETitle, attrAETitle)
}

// ListRegisteredWebAppNames returns every claimed web application name, sorted.
func (r *LDAPDeviceRepository) ListRegisteredWebAppNames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listValues(ctx, r.roots.WebAppNamesRegistry, ocUniqueWebAppName, attrWebAppName)
}

func (r *LDAPDeviceRepository) claim(ctx context.Context, dn, objectClass, attr, value string, conflict error) error {
	attrs := objectClasses(objectClass)
	attrs.Put(attr, value)
	err := r.access.Create(ctx, dn, attrs)
	if apperrors.Is(err, apperrors.ErrAlreadyExists) {
		return fmt.Errorf("%w: %s", conflict, value)
	}
	return err
}

func (r *LDAPDeviceRepository) release(ctx context.Context, dn string) error {
	err := r.access.Destroy(ctx, dn)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// register claims every name device introduces relative to prev and returns
// the registry DNs it created, also on failure, so the caller can release them.
func (r *LDAPDeviceRepository) register(
	ctx context.Context,
	s *Session,
	prev, device *domain.Device,
) ([]string, error) {
	var created []string
	for _, ae := range device.ApplicationEntities {
		if ae.IsWildcard() || hasAE(prev, ae.AETitle) {
			continue
		}
		dn := r.roots.AETitleDN(ae.AETitle)
		if err := r.claim(ctx, dn, ocUniqueAETitle, attrAETitle, ae.AETitle, domain.ErrAETitleAlreadyRegistered); err != nil {
			return created, err
		}
		created = append(created, dn)
	}
	for _, wa := range device.WebApplications {
		if wa.IsWildcard() || hasWebApp(prev, wa.Name) {
			continue
		}
		dn := r.roots.WebAppNameDN(wa.Name)
		if err := r.claim(ctx, dn, ocUniqueWebAppName, attrWebAppName, wa.Name, domain.ErrWebAppNameAlreadyRegistered); err != nil {
			return created, err
		}
		created = append(created, dn)
	}
	for _, ext := range r.extensions {
		dns, err := ext.Register(ctx, s, prev, device)
		created = append(created, dns...)
		if err != nil {
			return created, apperrors.Wrapf(err, "extension %s failed to register", ext.Name())
		}
	}
	return created, nil
}

// markForUnregister returns the registry DNs of names prev claimed that device dropped.
func (r *LDAPDeviceRepository) markForUnregister(s *Session, prev, device *domain.Device) []string {
	var dns []string
	for _, ae := range prev.ApplicationEntities {
		if ae.IsWildcard() || hasAE(device, ae.AETitle) {
			continue
		}
		dns = append(dns, r.roots.AETitleDN(ae.AETitle))
	}
	for _, wa := range prev.WebApplications {
		if wa.IsWildcard() || hasWebApp(device, wa.Name) {
			continue
		}
		dns = append(dns, r.roots.WebAppNameDN(wa.Name))
	}
	for _, ext := range r.extensions {
		dns = append(dns, ext.MarkForUnregister(s, prev, device)...)
	}
	return dns
}

// markDeviceForUnregister collects the registry DNs claimed by the stored
// device at deviceDN without loading the full device.
func (r *LDAPDeviceRepository) markDeviceForUnregister(ctx context.Context, s *Session, deviceDN string) ([]string, error) {
	var dns []string
	titles, err := r.childValues(ctx, deviceDN, ocNetworkAE, attrAETitle)
	if err != nil {
		return nil, err
	}
	for _, title := range titles {
		if title != domain.Wildcard {
			dns = append(dns, r.roots.AETitleDN(title))
		}
	}
	names, err := r.childValues(ctx, deviceDN, ocWebApp, attrWebAppName)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if name != domain.Wildcard {
			dns = append(dns, r.roots.WebAppNameDN(name))
		}
	}
	for _, ext := range r.extensions {
		extDNs, err := ext.MarkDeviceForUnregister(ctx, s, deviceDN)
		if err != nil {
			return nil, apperrors.Wrapf(err, "extension %s failed to collect registrations", ext.Name())
		}
		dns = append(dns, extDNs...)
	}
	return dns, nil
}

// unregister releases every DN and returns the failures; it never stops early.
func (r *LDAPDeviceRepository) unregister(ctx context.Context, dns []string) []error {
	var failures []error
	for _, dn := range dns {
		if err := r.release(ctx, dn); err != nil {
			r.logger.Warn("failed to unregister",
				slog.String("dn", dn),
				slog.Any("error", err),
			)
			failures = append(failures, apperrors.Wrapf(err, "failed to unregister %s", dn))
		}
	}
	return failures
}

// staleRegistrations reports releases that failed after a write was applied.
func staleRegistrations(failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	return &apperrors.CleanupError{Cause: domain.ErrRegistrationsNotReleased, Failures: failures}
}

// childValues returns attr of the one-level children of base with the given object class.
func (r *LDAPDeviceRepository) childValues(ctx context.Context, base, objectClass, attr string) ([]string, error) {
	entries, err := r.access.Search(ctx, base, directory.ScopeOneLevel, filterObjectClass(objectClass), attr)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(entries))
	for _, e := range entries {
		if v, ok := e.Attributes.First(attr); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// listValues is childValues sorted, treating a missing container as empty.
func (r *LDAPDeviceRepository) listValues(ctx context.Context, base, objectClass, attr string) ([]string, error) {
	values, err := r.childValues(ctx, base, objectClass, attr)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(values)
	return values, nil
}

func hasAE(device *domain.Device, title string) bool {
	if device == nil {
		return false
	}
	_, ok := device.ApplicationEntity(title)
	return ok
}

func hasWebApp(device *domain.Device, name string) bool {
	if device == nil {
		return false
	}
	_, ok := device.WebApplication(name)
	return ok
}
