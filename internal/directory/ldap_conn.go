package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// LDAPConfig holds the settings needed to open a bound LDAP connection.
type LDAPConfig struct {
	URL                   string
	BindDN                string
	BindPassword          string
	DialTimeout           time.Duration
	TLSInsecureSkipVerify bool
}

// ldapConn adapts *ldap.Conn to Conn.
type ldapConn struct {
	conn *ldap.Conn
}

// NewLDAPDialer returns a Dialer that connects and binds using cfg.
func NewLDAPDialer(cfg LDAPConfig) Dialer {
	return func(ctx context.Context) (Conn, error) {
		conn, err := ldap.DialURL(
			cfg.URL,
			ldap.DialWithDialer(&net.Dialer{Timeout: cfg.DialTimeout}),
			ldap.DialWithTLSConfig(&tls.Config{
				InsecureSkipVerify: cfg.TLSInsecureSkipVerify, //nolint:gosec
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to dial %s: %w", cfg.URL, err)
		}

		if cfg.BindDN != "" {
			if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to bind as %s: %w", cfg.BindDN, err)
			}
		}

		return &ldapConn{conn: conn}, nil
	}
}

// Search implements Conn.
func (c *ldapConn) Search(base string, scope Scope, filter string, attrs []string) ([]*Entry, error) {
	req := ldap.NewSearchRequest(
		base,
		ldapScope(scope),
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		attrs,
		nil,
	)

	res, err := c.conn.Search(req)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(res.Entries))
	for _, e := range res.Entries {
		attributes := make(Attributes, len(e.Attributes))
		for _, a := range e.Attributes {
			values := make([]string, len(a.ByteValues))
			for i, b := range a.ByteValues {
				values[i] = string(b)
			}
			attributes[a.Name] = values
		}
		entries = append(entries, &Entry{DN: e.DN, Attributes: attributes})
	}
	return entries, nil
}

// Add implements Conn.
func (c *ldapConn) Add(dn string, attrs Attributes) error {
	req := ldap.NewAddRequest(dn, nil)
	for name, values := range attrs {
		if len(values) > 0 {
			req.Attribute(name, values)
		}
	}
	return c.conn.Add(req)
}

// Delete implements Conn.
func (c *ldapConn) Delete(dn string) error {
	return c.conn.Del(ldap.NewDelRequest(dn, nil))
}

// Modify implements Conn.
func (c *ldapConn) Modify(dn string, mods []Modification) error {
	req := ldap.NewModifyRequest(dn, nil)
	for _, m := range mods {
		switch m.Op {
		case ModAdd:
			req.Add(m.Attr, m.Values)
		case ModReplace:
			req.Replace(m.Attr, m.Values)
		case ModDelete:
			req.Delete(m.Attr, m.Values)
		}
	}
	return c.conn.Modify(req)
}

// Close implements Conn.
func (c *ldapConn) Close() error {
	c.conn.Close()
	return nil
}

func ldapScope(s Scope) int {
	switch s {
	case ScopeBase:
		return ldap.ScopeBaseObject
	case ScopeOneLevel:
		return ldap.ScopeSingleLevel
	default:
		return ldap.ScopeWholeSubtree
	}
}
