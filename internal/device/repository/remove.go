package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/dicomconf/internal/device/domain"
	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// Remove deletes the device named name with its whole subtree and, when
// opts.Register is set, releases the names it claimed. When a release fails
// the removal stands: the change log is returned together with a CleanupError
// wrapping ErrRegistrationsNotReleased.
func (r *LDAPDeviceRepository) Remove(ctx context.Context, name string, opts domain.Options) (*domain.ChangeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.configurationExists(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check configuration root")
	}
	deviceDN := r.roots.DeviceDN(name)
	if exists {
		exists, err = r.access.Exists(ctx, deviceDN)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to check device")
		}
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, name)
	}

	log := domain.NewChangeLog(opts.ChangeLog)
	s := r.session(log)

	var claimed []string
	if opts.Register {
		claimed, err = r.markDeviceForUnregister(ctx, s, deviceDN)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to collect registrations of device %s", name)
		}
	}

	if err := newWriter(s).destroy(ctx, deviceDN); err != nil {
		return nil, apperrors.Wrapf(err, "failed to remove device %s", name)
	}

	failures := r.unregister(ctx, claimed)
	r.logger.Info("device removed",
		slog.String("device", name),
		slog.Int("unregistered", len(claimed)-len(failures)),
	)
	return log, staleRegistrations(failures)
}
