package repository

import (
	"context"
	"slices"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
)

// writer performs the writes of one persist or merge and records them in the
// change log.
type writer struct {
	s       *Session
	changes int
}

func newWriter(s *Session) *writer {
	return &writer{s: s}
}

func (w *writer) create(ctx context.Context, dn string, attrs directory.Attributes) error {
	if err := w.s.Access.Create(ctx, dn, attrs); err != nil {
		return err
	}
	w.changes++
	obj := w.s.ChangeLog.Record(dn, domain.ChangeCreated)
	if obj != nil && w.s.ChangeLog.Verbose() {
		ids := make([]string, 0, len(attrs))
		for id := range attrs {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			obj.Attributes = append(obj.Attributes, domain.ModifiedAttribute{
				ID:     id,
				Op:     directory.ModAdd.String(),
				Values: attrs[id],
			})
		}
	}
	return nil
}

func (w *writer) modify(ctx context.Context, dn string, mods []directory.Modification) error {
	if len(mods) == 0 {
		return nil
	}
	if err := w.s.Access.Modify(ctx, dn, mods); err != nil {
		return err
	}
	w.changes++
	obj, ok := w.s.ChangeLog.Find(dn)
	if !ok || obj.Type != domain.ChangeUpdated {
		obj = w.s.ChangeLog.Record(dn, domain.ChangeUpdated)
	}
	if obj != nil && w.s.ChangeLog.Verbose() {
		for _, m := range mods {
			obj.Attributes = append(obj.Attributes, domain.ModifiedAttribute{
				ID:     m.Attr,
				Op:     m.Op.String(),
				Values: m.Values,
			})
		}
	}
	return nil
}

func (w *writer) destroy(ctx context.Context, dn string) error {
	if err := w.s.Access.DestroySubtree(ctx, dn); err != nil {
		return err
	}
	w.changes++
	w.s.ChangeLog.Record(dn, domain.ChangeDeleted)
	return nil
}
