package repository

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/allisson/dicomconf/internal/device/domain"
)

// Roots holds the DNs of the fixed containers of one configuration.
type Roots struct {
	Config              string
	Devices             string
	AETitlesRegistry    string
	WebAppNamesRegistry string
}

func newRoots(configName, baseDN string) Roots {
	config := rdn(attrCN, configName) + "," + baseDN
	return Roots{
		Config:              config,
		Devices:             childDN(attrCN, devicesCN, config),
		AETitlesRegistry:    childDN(attrCN, aeTitlesRegistryCN, config),
		WebAppNamesRegistry: childDN(attrCN, webAppNamesRegistryCN, config),
	}
}

// DeviceDN returns the DN of the device entry for name.
func (r Roots) DeviceDN(name string) string {
	return childDN(attrDeviceName, name, r.Devices)
}

// AETitleDN returns the DN of the registry entry claiming title.
func (r Roots) AETitleDN(title string) string {
	return childDN(attrAETitle, title, r.AETitlesRegistry)
}

// WebAppNameDN returns the DN of the registry entry claiming name.
func (r Roots) WebAppNameDN(name string) string {
	return childDN(attrWebAppName, name, r.WebAppNamesRegistry)
}

func rdn(attr, value string) string {
	return attr + "=" + ldap.EscapeDN(value)
}

func childDN(attr, value, parentDN string) string {
	return rdn(attr, value) + "," + parentDN
}

func childDN2(attr1, value1, attr2, value2, parentDN string) string {
	return rdn(attr1, value1) + "+" + rdn(attr2, value2) + "," + parentDN
}

// connectionDN names a connection by its common name, falling back to its
// host and, for listening connections, its port.
func connectionDN(conn *domain.Connection, deviceDN string) string {
	switch {
	case conn.CommonName != "":
		return childDN(attrCN, conn.CommonName, deviceDN)
	case conn.IsListening():
		return childDN2(attrHostname, conn.Hostname, attrPort, strconv.Itoa(conn.Port), deviceDN)
	default:
		return childDN(attrHostname, conn.Hostname, deviceDN)
	}
}

// connectionRefDN is the DN an AE or web application stores to reference conn.
func connectionRefDN(conn *domain.Connection, deviceDN string) string {
	if conn.ExternalDN != "" {
		return conn.ExternalDN
	}
	return connectionDN(conn, deviceDN)
}

func aeDN(title, deviceDN string) string {
	return childDN(attrAETitle, title, deviceDN)
}

func transferCapabilityDN(tc *domain.TransferCapability, aeDN string) string {
	if tc.CommonName != "" {
		return childDN(attrCN, tc.CommonName, aeDN)
	}
	return childDN2(attrSOPClass, tc.SOPClass, attrTransferRole, string(tc.Role), aeDN)
}

func webAppDN(name, deviceDN string) string {
	return childDN(attrWebAppName, name, deviceDN)
}

func keycloakClientDN(clientID, deviceDN string) string {
	return childDN(attrKeycloakClientID, clientID, deviceDN)
}

// dnKey folds a DN for map lookups. Equal DNs map to the same key whatever
// their escaping, letter case or order of multi-valued RDN components.
func dnKey(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return strings.ToLower(dn)
	}
	rdns := make([]string, len(parsed.RDNs))
	for i, rdn := range parsed.RDNs {
		avas := make([]string, len(rdn.Attributes))
		for j, ava := range rdn.Attributes {
			avas[j] = strings.ToLower(ava.Type) + "=" + strconv.Quote(strings.ToLower(ava.Value))
		}
		slices.Sort(avas)
		rdns[i] = strings.Join(avas, "+")
	}
	return strings.Join(rdns, ",")
}

// rdnValue returns the value of the RDN at depth index of dn, 0 being the
// leading one.
func rdnValue(dn string, index int) (string, error) {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return "", err
	}
	if len(parsed.RDNs) <= index || len(parsed.RDNs[index].Attributes) == 0 {
		return "", ldap.NewError(ldap.LDAPResultInvalidDNSyntax, fmt.Errorf("no RDN at depth %d in %q", index, dn))
	}
	return parsed.RDNs[index].Attributes[0].Value, nil
}
