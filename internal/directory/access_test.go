package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

const testBaseDN = "dc=example,dc=com"

func newTestAccess(t *testing.T) (*Access, *MemoryDirectory) {
	t.Helper()
	dir := NewMemoryDirectory(testBaseDN)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAccess(dir.Dial, logger), dir
}

func TestAccess_CreateGetDestroy(t *testing.T) {
	ctx := context.Background()
	access, _ := newTestAccess(t)

	dn := "cn=node1," + testBaseDN
	err := access.Create(ctx, dn, Attributes{"objectClass": {"device"}, "cn": {"node1"}})
	require.NoError(t, err)

	entry, found, err := access.Get(ctx, dn)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, dn, entry.DN)
	assert.Equal(t, []string{"node1"}, entry.Attributes["cn"])

	t.Run("Error_CreateDuplicate", func(t *testing.T) {
		err := access.Create(ctx, dn, Attributes{"cn": {"node1"}})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_CreateWithoutParent", func(t *testing.T) {
		err := access.Create(ctx, "cn=child,cn=missing,"+testBaseDN, Attributes{"cn": {"child"}})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	require.NoError(t, access.Destroy(ctx, dn))

	_, found, err = access.Get(ctx, dn)
	require.NoError(t, err)
	assert.False(t, found)

	exists, err := access.Exists(ctx, dn)
	require.NoError(t, err)
	assert.False(t, exists)

	err = access.Destroy(ctx, dn)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccess_DestroySubtree(t *testing.T) {
	ctx := context.Background()
	access, dir := newTestAccess(t)

	root := "cn=root," + testBaseDN
	require.NoError(t, access.Create(ctx, root, Attributes{"cn": {"root"}}))
	require.NoError(t, access.Create(ctx, "cn=a,"+root, Attributes{"cn": {"a"}}))
	require.NoError(t, access.Create(ctx, "cn=b,"+root, Attributes{"cn": {"b"}}))
	require.NoError(t, access.Create(ctx, "cn=c,cn=a,"+root, Attributes{"cn": {"c"}}))

	err := access.Destroy(ctx, root)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	require.NoError(t, access.DestroySubtree(ctx, root))
	assert.Equal(t, 1, dir.Len())
}

func TestAccess_Modify(t *testing.T) {
	ctx := context.Background()
	access, dir := newTestAccess(t)

	dn := "cn=node," + testBaseDN
	require.NoError(t, access.Create(ctx, dn, Attributes{"cn": {"node"}, "description": {"old"}}))

	err := access.Modify(ctx, dn, []Modification{
		Replace("description", "new"),
		Add("dicomSoftwareVersion", "1.0", "2.0"),
	})
	require.NoError(t, err)

	entry, ok := dir.Lookup(dn)
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, entry.Attributes["description"])
	assert.Equal(t, []string{"1.0", "2.0"}, entry.Attributes["dicomSoftwareVersion"])

	t.Run("Success_EmptyModificationsIsNoop", func(t *testing.T) {
		require.NoError(t, access.Modify(ctx, "cn=missing,"+testBaseDN, nil))
	})

	t.Run("Error_RemoveMissingAttributeIsAtomic", func(t *testing.T) {
		err := access.Modify(ctx, dn, []Modification{
			Replace("description", "changed"),
			Remove("dicomManufacturer"),
		})
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)

		entry, _ := dir.Lookup(dn)
		assert.Equal(t, []string{"new"}, entry.Attributes["description"])
	})
}

func TestAccess_Search(t *testing.T) {
	ctx := context.Background()
	access, _ := newTestAccess(t)

	root := "cn=Devices," + testBaseDN
	require.NoError(t, access.Create(ctx, root, Attributes{"objectClass": {"dicomDevicesRoot"}}))
	require.NoError(t, access.Create(ctx, "dicomDeviceName=a,"+root, Attributes{
		"objectClass":     {"dicomDevice"},
		"dicomDeviceName": {"a"},
	}))
	require.NoError(t, access.Create(ctx, "dicomAETitle=A_AE,dicomDeviceName=a,"+root, Attributes{
		"objectClass":  {"dicomNetworkAE"},
		"dicomAETitle": {"A_AE"},
	}))

	devices, err := access.Search(ctx, root, ScopeOneLevel, "(objectclass=dicomDevice)", "dicomDeviceName")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, []string{"a"}, devices[0].Attributes["dicomDeviceName"])

	aes, err := access.Search(ctx, root, ScopeSubtree, "(&(objectclass=dicomNetworkAE)(dicomAETitle=A_AE))")
	require.NoError(t, err)
	require.Len(t, aes, 1)

	none, err := access.Search(ctx, root, ScopeSubtree, "(dicomAETitle=OTHER)")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = access.Search(ctx, "cn=missing,"+testBaseDN, ScopeOneLevel, AllObjects)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccess_ReconnectOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RetriesAfterBrokenConnection", func(t *testing.T) {
		access, dir := newTestAccess(t)
		_, err := access.Exists(ctx, testBaseDN)
		require.NoError(t, err)
		require.Equal(t, 1, dir.Dials())

		dir.BreakConnections()

		exists, err := access.Exists(ctx, testBaseDN)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 2, dir.Dials())
	})

	t.Run("Error_SecondFailurePropagates", func(t *testing.T) {
		access, dir := newTestAccess(t)
		calls := 0
		dir.SetFault(func(op, dn string) error {
			calls++
			return ldap.NewError(ldap.ErrorNetwork, errors.New("connection reset"))
		})

		_, err := access.Exists(ctx, testBaseDN)
		assert.ErrorIs(t, err, apperrors.ErrTransportBroken)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 2, dir.Dials())
	})

	t.Run("Error_NonTransportFailureIsNotRetried", func(t *testing.T) {
		access, dir := newTestAccess(t)
		calls := 0
		dir.SetFault(func(op, dn string) error {
			calls++
			return ldap.NewError(ldap.LDAPResultInsufficientAccessRights, errors.New("denied"))
		})

		err := access.Create(ctx, "cn=x,"+testBaseDN, Attributes{"cn": {"x"}})
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, dir.Dials())
	})
}

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
	reconnects []string
}

func (o *recordingObserver) ObserveOperation(_ context.Context, operation, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations = append(o.operations, operation+":"+status)
}

func (o *recordingObserver) ObserveReconnect(_ context.Context, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reconnects = append(o.reconnects, status)
}

func TestAccess_Observer(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory(testBaseDN)
	obs := &recordingObserver{}
	access := NewAccess(dir.Dial, slog.New(slog.NewTextHandler(io.Discard, nil)), WithObserver(obs))

	dn := "cn=node1," + testBaseDN
	require.NoError(t, access.Create(ctx, dn, Attributes{"objectClass": {"device"}, "cn": {"node1"}}))
	assert.Error(t, access.Create(ctx, dn, Attributes{"cn": {"node1"}}))
	assert.Error(t, access.Destroy(ctx, "cn=missing,"+testBaseDN))

	dir.BreakConnections()
	_, err := access.Exists(ctx, testBaseDN)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create:success",
		"create:conflict",
		"destroy:not_found",
		"search:success",
	}, obs.operations)
	assert.Equal(t, []string{"success"}, obs.reconnects)
}

func TestAccess_RateLimit(t *testing.T) {
	dir := NewMemoryDirectory(testBaseDN)
	access := NewAccess(dir.Dial, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRateLimit(1000, 10))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := access.Exists(ctx, testBaseDN)
	require.NoError(t, err)

	cancel()
	_, err = access.Exists(ctx, testBaseDN)
	assert.Error(t, err)
}

func TestIsBroken(t *testing.T) {
	assert.False(t, IsBroken(nil))
	assert.True(t, IsBroken(ldap.NewError(ldap.ErrorNetwork, errors.New("closed"))))
	assert.True(t, IsBroken(ldap.NewError(ldap.LDAPResultUnavailable, errors.New("unavailable"))))
	assert.True(t, IsBroken(io.EOF))
	assert.False(t, IsBroken(ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("missing"))))
}

func TestAttributes(t *testing.T) {
	attrs := Attributes{"userCertificate;binary": {"der"}, "objectClass": {"top", "pkiUser"}}

	vals, ok := attrs.Get("usercertificate")
	require.True(t, ok)
	assert.Equal(t, []string{"der"}, vals)
	assert.True(t, attrs.HasValue("objectclass", "PKIUSER"))

	attrs.Put("userCertificate", "a", "b")
	_, old := attrs["userCertificate;binary"]
	assert.False(t, old)
	assert.Equal(t, []string{"a", "b"}, attrs["userCertificate"])

	first, ok := attrs.First("objectClass")
	assert.True(t, ok)
	assert.Equal(t, "top", first)
}
