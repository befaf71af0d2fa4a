package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// Access owns one directory connection and performs the primitive operations
// the configuration engine needs. Every operation is retried exactly once
// after a reconnect when the transport reports a broken connection; a second
// failure is returned to the caller.
type Access struct {
	dial    Dialer
	logger  *slog.Logger
	limiter *rate.Limiter
	obs     Observer

	mu        sync.Mutex
	conn      Conn
	reconnect singleflight.Group
}

// Option configures an Access.
type Option func(*Access)

// WithRateLimit throttles directory operations to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *Access) {
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Observer receives the outcome of every directory operation and reconnect.
type Observer interface {
	ObserveOperation(ctx context.Context, operation, status string, duration time.Duration)
	ObserveReconnect(ctx context.Context, status string)
}

// WithObserver reports operations and reconnects to obs.
func WithObserver(obs Observer) Option {
	return func(a *Access) {
		a.obs = obs
	}
}

// NewAccess creates an Access that opens its connection lazily through dial.
func NewAccess(dial Dialer, logger *slog.Logger, opts ...Option) *Access {
	a := &Access{dial: dial, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get fetches the entry at dn. The boolean reports whether it exists.
func (a *Access) Get(ctx context.Context, dn string, attrs ...string) (*Entry, bool, error) {
	entries, err := a.Search(ctx, dn, ScopeBase, AllObjects, attrs...)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	return entries[0], true, nil
}

// Exists reports whether an entry exists at dn.
func (a *Access) Exists(ctx context.Context, dn string) (bool, error) {
	_, found, err := a.Get(ctx, dn, NoAttributes)
	return found, err
}

// Search returns the entries under base matching filter.
func (a *Access) Search(
	ctx context.Context,
	base string,
	scope Scope,
	filter string,
	attrs ...string,
) ([]*Entry, error) {
	var entries []*Entry
	err := a.do(ctx, "search", base, func(c Conn) error {
		var err error
		entries, err = c.Search(base, scope, filter, attrs)
		return err
	})
	return entries, err
}

// Create adds a new entry. It fails with ErrAlreadyExists when dn is taken.
func (a *Access) Create(ctx context.Context, dn string, attrs Attributes) error {
	return a.do(ctx, "create", dn, func(c Conn) error {
		return c.Add(dn, attrs)
	})
}

// Destroy deletes a leaf entry. It fails with ErrNotFound when dn is absent.
func (a *Access) Destroy(ctx context.Context, dn string) error {
	return a.do(ctx, "destroy", dn, func(c Conn) error {
		return c.Delete(dn)
	})
}

// DestroySubtree deletes dn and all of its descendants, children first.
func (a *Access) DestroySubtree(ctx context.Context, dn string) error {
	children, err := a.Search(ctx, dn, ScopeOneLevel, AllObjects, NoAttributes)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := a.DestroySubtree(ctx, child.DN); err != nil {
			return err
		}
	}
	return a.Destroy(ctx, dn)
}

// Modify applies mods to dn. An empty modification list is a no-op.
func (a *Access) Modify(ctx context.Context, dn string, mods []Modification) error {
	if len(mods) == 0 {
		return nil
	}
	return a.do(ctx, "modify", dn, func(c Conn) error {
		return c.Modify(dn, mods)
	})
}

// Replace overwrites the given attributes of dn.
func (a *Access) Replace(ctx context.Context, dn string, attrs Attributes) error {
	mods := make([]Modification, 0, len(attrs))
	for id, values := range attrs {
		mods = append(mods, Replace(id, values...))
	}
	return a.Modify(ctx, dn, mods)
}

// Close releases the current connection.
func (a *Access) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *Access) do(ctx context.Context, op, dn string, fn func(Conn) error) error {
	start := time.Now()
	err := a.attempt(ctx, op, dn, fn)
	if a.obs != nil {
		a.obs.ObserveOperation(ctx, op, outcome(err), time.Since(start))
	}
	return err
}

func (a *Access) attempt(ctx context.Context, op, dn string, fn func(Conn) error) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %q: %w", op, dn, err)
		}
	}

	conn, err := a.current(ctx)
	if err != nil {
		return classify(op, dn, err)
	}

	err = fn(conn)
	if !IsBroken(err) {
		return classify(op, dn, err)
	}

	a.logger.Warn("directory connection broken, reconnecting",
		slog.String("operation", op),
		slog.String("dn", dn),
		slog.Any("error", err),
	)

	conn, rerr := a.renew(ctx, conn)
	if a.obs != nil {
		a.obs.ObserveReconnect(ctx, outcome(rerr))
	}
	if rerr != nil {
		return classify(op, dn, apperrors.Join(err, rerr))
	}
	return classify(op, dn, fn(conn))
}

func (a *Access) current(ctx context.Context) (Conn, error) {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn != nil {
		return conn, nil
	}
	return a.renew(ctx, nil)
}

// renew replaces broken with a fresh connection. Concurrent callers that saw
// the same broken connection share one dial.
func (a *Access) renew(ctx context.Context, broken Conn) (Conn, error) {
	v, err, _ := a.reconnect.Do("dial", func() (any, error) {
		a.mu.Lock()
		defer a.mu.Unlock()

		if a.conn != nil && a.conn != broken {
			return a.conn, nil
		}
		if a.conn != nil {
			_ = a.conn.Close()
			a.conn = nil
		}

		conn, err := a.dial(ctx)
		if err != nil {
			return nil, err
		}
		a.conn = conn
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Conn), nil
}

// outcome maps an operation result to a metric status label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrAlreadyExists):
		return "conflict"
	default:
		return "error"
	}
}
