package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	"github.com/allisson/dicomconf/internal/ldapcodec"
)

// FindCertificates returns the certificates stored at the holder entry dn.
func (r *LDAPDeviceRepository) FindCertificates(ctx context.Context, dn string) ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCertificates(ctx, dn)
}

// PersistCertificates replaces the certificates of the holder entry dn. The
// entry must exist.
func (r *LDAPDeviceRepository) PersistCertificates(ctx context.Context, dn string, certs ...[]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeCertificates(ctx, newWriter(r.session(nil)), dn, certs)
}

// RemoveCertificates deletes all certificates of the holder entry dn.
func (r *LDAPDeviceRepository) RemoveCertificates(ctx context.Context, dn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeCertificates(ctx, newWriter(r.session(nil)), dn, nil)
}

func (r *LDAPDeviceRepository) loadCertificates(ctx context.Context, dn string) ([][]byte, error) {
	entry, found, err := r.access.Get(ctx, dn, attrUserCertificate)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: certificate holder %s", apperrors.ErrNotFound, dn)
	}
	return ldapcodec.Bytes(entry.Attributes, attrUserCertificate), nil
}

func (r *LDAPDeviceRepository) storeCertificates(ctx context.Context, w *writer, dn string, certs [][]byte) error {
	entry, found, err := r.access.Get(ctx, dn, attrObjectClass, attrUserCertificate)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: certificate holder %s", apperrors.ErrNotFound, dn)
	}
	var mods []directory.Modification
	if len(certs) > 0 && !entry.Attributes.HasValue(attrObjectClass, ocPKIUser) {
		mods = append(mods, directory.Add(attrObjectClass, ocPKIUser))
	}
	mods = ldapcodec.StoreDiffBytes(mods, attrUserCertificate, ldapcodec.Bytes(entry.Attributes, attrUserCertificate), certs)
	return w.modify(ctx, dn, mods)
}

// updateCertificates writes the certificates of every holder device references.
// Holders already present in prev are compared against its cached certificates,
// others are loaded first.
func (r *LDAPDeviceRepository) updateCertificates(ctx context.Context, w *writer, prev, device *domain.Device) error {
	for _, holders := range []struct{ prev, next map[string][][]byte }{
		{prevCertificates(prev, true), device.AuthorizedNodeCertificates},
		{prevCertificates(prev, false), device.ThisNodeCertificates},
	} {
		for _, dn := range slices.Sorted(maps.Keys(holders.next)) {
			certs := holders.next[dn]
			old, cached := holders.prev[dn]
			if !cached {
				var err error
				if old, err = r.loadCertificates(ctx, dn); err != nil {
					return err
				}
			}
			if ldapcodec.EqualBytesAnyOrder(old, certs) {
				continue
			}
			if err := r.storeCertificates(ctx, w, dn, certs); err != nil {
				return apperrors.Wrapf(err, "failed to store certificates of %s", dn)
			}
		}
	}
	return nil
}

func prevCertificates(prev *domain.Device, authorized bool) map[string][][]byte {
	if prev == nil {
		return nil
	}
	if authorized {
		return prev.AuthorizedNodeCertificates
	}
	return prev.ThisNodeCertificates
}
