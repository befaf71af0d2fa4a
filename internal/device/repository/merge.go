package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	"github.com/allisson/dicomconf/internal/ldapcodec"
)

// Merge updates a stored device to match device, touching only entries and
// attributes that differ. Names device introduces are registered before any
// write and released again if the merge fails; names it dropped are released
// once the merge succeeded. When such a release fails the change log is still
// returned, together with a CleanupError wrapping ErrRegistrationsNotReleased.
func (r *LDAPDeviceRepository) Merge(
	ctx context.Context,
	device *domain.Device,
	opts domain.Options,
) (*domain.ChangeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.configurationExists(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check configuration root")
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, device.Name)
	}

	deviceDN := r.roots.DeviceDN(device.Name)
	prev, err := r.loadDevice(ctx, r.newLoadContext(), deviceDN)
	if err != nil {
		return nil, err
	}

	log := domain.NewChangeLog(opts.ChangeLog)
	s := r.session(log)

	var registered []string
	if opts.Register {
		registered, err = r.register(ctx, s, prev, device)
		if err != nil {
			return nil, apperrors.WithCleanup(err, r.unregister(ctx, registered))
		}
	}

	w := newWriter(s)
	if err := r.mergeDevice(ctx, w, prev, device, deviceDN, opts); err != nil {
		failures := r.unregister(ctx, registered)
		r.logger.Error("failed to merge device",
			slog.String("device", device.Name),
			slog.Any("error", err),
			slog.Int("cleanup_failures", len(failures)),
		)
		return nil, apperrors.WithCleanup(apperrors.Wrapf(err, "failed to merge device %s", device.Name), failures)
	}

	var stale []error
	if opts.Register {
		stale = r.unregister(ctx, r.markForUnregister(s, prev, device))
	}

	if !opts.PreserveCertificates {
		if err := r.updateCertificates(ctx, w, prev, device); err != nil {
			return nil, apperrors.Wrapf(err, "failed to merge device %s", device.Name)
		}
	}

	if r.storeLastModified && w.changes > 0 {
		device.LastModified = r.timestamp()
		mods := []directory.Modification{directory.Replace(attrLastModified, ldapcodec.FormatTime(device.LastModified))}
		if err := w.modify(ctx, deviceDN, mods); err != nil {
			return nil, apperrors.Wrapf(err, "failed to stamp device %s", device.Name)
		}
	}

	r.logger.Info("device merged",
		slog.String("device", device.Name),
		slog.Int("entries", w.changes),
	)
	return log, staleRegistrations(stale)
}

func (r *LDAPDeviceRepository) mergeDevice(
	ctx context.Context,
	w *writer,
	prev, device *domain.Device,
	deviceDN string,
	opts domain.Options,
) error {
	mods := deviceDiffs(prev, device, opts)
	for _, ext := range r.extensions {
		mods = ext.StoreDiffs(w.s, prev, device, mods)
	}
	if err := w.modify(ctx, deviceDN, mods); err != nil {
		return err
	}

	// New connections must exist before AEs reference them; obsolete ones go
	// only after no AE references them anymore.
	conns := r.connectionChildren(w, deviceDN)
	if err := conns.upsert(ctx, prev.Connections, ownConnections(device)); err != nil {
		return err
	}
	if err := r.aeChildren(w, deviceDN).reconcile(ctx, prev.ApplicationEntities, device.ApplicationEntities); err != nil {
		return err
	}
	if err := r.webAppChildren(w, deviceDN).reconcile(ctx, prev.WebApplications, device.WebApplications); err != nil {
		return err
	}
	if err := r.keycloakClientChildren(w, deviceDN).reconcile(ctx, prev.KeycloakClients, device.KeycloakClients); err != nil {
		return err
	}
	for _, ext := range r.extensions {
		if err := ext.MergeChilds(ctx, w.s, prev, device, deviceDN); err != nil {
			return apperrors.Wrapf(err, "extension %s failed to merge", ext.Name())
		}
	}
	return conns.prune(ctx, prev.Connections, ownConnections(device))
}

// children reconciles one kind of child entry. Items are matched by the DN
// they compute to; duplicates within one list collapse onto the first.
type children[T any] struct {
	w      *writer
	dn     func(*T) string
	create func(ctx context.Context, dn string, item *T) error
	update func(ctx context.Context, dn string, prev, item *T) error
}

// reconcile deletes children missing from currs, then updates or creates the rest.
func (c children[T]) reconcile(ctx context.Context, prevs, currs []*T) error {
	if err := c.prune(ctx, prevs, currs); err != nil {
		return err
	}
	return c.upsert(ctx, prevs, currs)
}

func (c children[T]) upsert(ctx context.Context, prevs, currs []*T) error {
	old := make(map[string]*T, len(prevs))
	for _, p := range prevs {
		old[dnKey(c.dn(p))] = p
	}
	seen := make(map[string]bool, len(currs))
	for _, item := range currs {
		dn := c.dn(item)
		key := dnKey(dn)
		if seen[key] {
			continue
		}
		seen[key] = true
		if p, ok := old[key]; ok {
			if err := c.update(ctx, dn, p, item); err != nil {
				return err
			}
			continue
		}
		if err := c.create(ctx, dn, item); err != nil {
			return err
		}
	}
	return nil
}

func (c children[T]) prune(ctx context.Context, prevs, currs []*T) error {
	keep := make(map[string]bool, len(currs))
	for _, item := range currs {
		keep[dnKey(c.dn(item))] = true
	}
	for _, p := range prevs {
		dn := c.dn(p)
		if keep[dnKey(dn)] {
			continue
		}
		if err := c.w.destroy(ctx, dn); err != nil {
			return err
		}
	}
	return nil
}

func (r *LDAPDeviceRepository) connectionChildren(w *writer, deviceDN string) children[domain.Connection] {
	return children[domain.Connection]{
		w:  w,
		dn: func(conn *domain.Connection) string { return connectionDN(conn, deviceDN) },
		create: func(ctx context.Context, dn string, conn *domain.Connection) error {
			return w.create(ctx, dn, connectionAttributes(conn))
		},
		update: func(ctx context.Context, dn string, prev, conn *domain.Connection) error {
			return w.modify(ctx, dn, connectionDiffs(prev, conn))
		},
	}
}

func (r *LDAPDeviceRepository) aeChildren(w *writer, deviceDN string) children[domain.ApplicationEntity] {
	return children[domain.ApplicationEntity]{
		w:  w,
		dn: func(ae *domain.ApplicationEntity) string { return aeDN(ae.AETitle, deviceDN) },
		create: func(ctx context.Context, dn string, ae *domain.ApplicationEntity) error {
			return r.storeApplicationEntity(ctx, w, dn, ae, deviceDN)
		},
		update: func(ctx context.Context, dn string, prev, ae *domain.ApplicationEntity) error {
			if err := w.modify(ctx, dn, aeDiffs(prev, ae, deviceDN)); err != nil {
				return err
			}
			return r.transferCapabilityChildren(w, dn).reconcile(ctx, prev.TransferCapabilities, ae.TransferCapabilities)
		},
	}
}

func (r *LDAPDeviceRepository) transferCapabilityChildren(w *writer, aeDN string) children[domain.TransferCapability] {
	return children[domain.TransferCapability]{
		w:  w,
		dn: func(tc *domain.TransferCapability) string { return transferCapabilityDN(tc, aeDN) },
		create: func(ctx context.Context, dn string, tc *domain.TransferCapability) error {
			return r.storeTransferCapability(ctx, w, dn, tc)
		},
		update: func(ctx context.Context, dn string, prev, tc *domain.TransferCapability) error {
			mods, err := transferCapabilityDiffs(prev, tc)
			if err != nil {
				return apperrors.Wrapf(err, "transfer capability %s", dn)
			}
			return w.modify(ctx, dn, mods)
		},
	}
}

func (r *LDAPDeviceRepository) webAppChildren(w *writer, deviceDN string) children[domain.WebApplication] {
	return children[domain.WebApplication]{
		w:  w,
		dn: func(wa *domain.WebApplication) string { return webAppDN(wa.Name, deviceDN) },
		create: func(ctx context.Context, dn string, wa *domain.WebApplication) error {
			return w.create(ctx, dn, webAppAttributes(wa, deviceDN))
		},
		update: func(ctx context.Context, dn string, prev, wa *domain.WebApplication) error {
			return w.modify(ctx, dn, webAppDiffs(prev, wa, deviceDN))
		},
	}
}

func (r *LDAPDeviceRepository) keycloakClientChildren(w *writer, deviceDN string) children[domain.KeycloakClient] {
	return children[domain.KeycloakClient]{
		w:  w,
		dn: func(kc *domain.KeycloakClient) string { return keycloakClientDN(kc.ClientID, deviceDN) },
		create: func(ctx context.Context, dn string, kc *domain.KeycloakClient) error {
			return w.create(ctx, dn, keycloakClientAttributes(kc))
		},
		update: func(ctx context.Context, dn string, prev, kc *domain.KeycloakClient) error {
			return w.modify(ctx, dn, keycloakClientDiffs(prev, kc))
		},
	}
}
