package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/dicomconf/internal/device/domain"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	"github.com/allisson/dicomconf/internal/ldapcodec"
)

// Persist stores a new device with all its children. Names are registered
// first when opts.Register is set. On failure everything written so far is
// rolled back; if the rollback itself fails the returned error reports the
// configuration as partially applied.
func (r *LDAPDeviceRepository) Persist(
	ctx context.Context,
	device *domain.Device,
	opts domain.Options,
) (*domain.ChangeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureRoots(ctx); err != nil {
		return nil, err
	}

	deviceDN := r.roots.DeviceDN(device.Name)
	exists, err := r.access.Exists(ctx, deviceDN)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check device")
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceAlreadyExists, device.Name)
	}

	log := domain.NewChangeLog(opts.ChangeLog)
	s := r.session(log)

	var registered []string
	if opts.Register {
		registered, err = r.register(ctx, s, nil, device)
		if err != nil {
			return nil, apperrors.WithCleanup(err, r.unregister(ctx, registered))
		}
	}

	if r.storeLastModified {
		device.LastModified = r.timestamp()
	}

	w := newWriter(s)
	created, err := r.storeDevice(ctx, w, deviceDN, device, opts)
	if err != nil {
		var failures []error
		if created {
			if derr := r.access.DestroySubtree(ctx, deviceDN); derr != nil {
				failures = append(failures, apperrors.Wrapf(derr, "failed to roll back %s", deviceDN))
			}
		}
		failures = append(failures, r.unregister(ctx, registered)...)
		r.logger.Error("failed to persist device",
			slog.String("device", device.Name),
			slog.Any("error", err),
			slog.Int("cleanup_failures", len(failures)),
		)
		return nil, apperrors.WithCleanup(apperrors.Wrapf(err, "failed to persist device %s", device.Name), failures)
	}

	r.logger.Info("device persisted",
		slog.String("device", device.Name),
		slog.Int("entries", w.changes),
	)
	return log, nil
}

// storeDevice creates the device entry and its subtree. created reports
// whether the device entry itself was written.
func (r *LDAPDeviceRepository) storeDevice(
	ctx context.Context,
	w *writer,
	deviceDN string,
	device *domain.Device,
	opts domain.Options,
) (created bool, err error) {
	attrs := deviceAttributes(device, !opts.PreserveCertificates)
	if r.storeLastModified {
		ldapcodec.StoreTime(attrs, attrLastModified, device.LastModified)
	}
	for _, ext := range r.extensions {
		ext.StoreTo(w.s, device, attrs)
	}
	if err := w.create(ctx, deviceDN, attrs); err != nil {
		return false, err
	}

	seen := make(map[string]bool)
	for _, conn := range ownConnections(device) {
		dn := connectionDN(conn, deviceDN)
		if seen[dnKey(dn)] {
			continue
		}
		seen[dnKey(dn)] = true
		if err := w.create(ctx, dn, connectionAttributes(conn)); err != nil {
			return true, err
		}
	}
	for _, ae := range device.ApplicationEntities {
		if err := r.storeApplicationEntity(ctx, w, aeDN(ae.AETitle, deviceDN), ae, deviceDN); err != nil {
			return true, err
		}
	}
	for _, wa := range device.WebApplications {
		if err := w.create(ctx, webAppDN(wa.Name, deviceDN), webAppAttributes(wa, deviceDN)); err != nil {
			return true, err
		}
	}
	for _, kc := range device.KeycloakClients {
		if err := w.create(ctx, keycloakClientDN(kc.ClientID, deviceDN), keycloakClientAttributes(kc)); err != nil {
			return true, err
		}
	}
	for _, ext := range r.extensions {
		if err := ext.StoreChilds(ctx, w.s, deviceDN, device); err != nil {
			return true, apperrors.Wrapf(err, "extension %s failed to store", ext.Name())
		}
	}
	if !opts.PreserveCertificates {
		if err := r.updateCertificates(ctx, w, nil, device); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (r *LDAPDeviceRepository) storeApplicationEntity(
	ctx context.Context,
	w *writer,
	dn string,
	ae *domain.ApplicationEntity,
	deviceDN string,
) error {
	if err := w.create(ctx, dn, aeAttributes(ae, deviceDN)); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, tc := range ae.TransferCapabilities {
		tcDN := transferCapabilityDN(tc, dn)
		if seen[dnKey(tcDN)] {
			continue
		}
		seen[dnKey(tcDN)] = true
		if err := r.storeTransferCapability(ctx, w, tcDN, tc); err != nil {
			return err
		}
	}
	return nil
}

func (r *LDAPDeviceRepository) storeTransferCapability(
	ctx context.Context,
	w *writer,
	dn string,
	tc *domain.TransferCapability,
) error {
	attrs, err := transferCapabilityAttributes(tc)
	if err != nil {
		return apperrors.Wrapf(err, "transfer capability %s", dn)
	}
	return w.create(ctx, dn, attrs)
}

// ownConnections drops connections that belong to other devices.
func ownConnections(device *domain.Device) []*domain.Connection {
	conns := make([]*domain.Connection, 0, len(device.Connections))
	for _, conn := range device.Connections {
		if conn.ExternalDN == "" {
			conns = append(conns, conn)
		}
	}
	return conns
}

// timestamp truncates to the precision of GeneralizedTime so a stored stamp
// loads back equal.
func (r *LDAPDeviceRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}
