// Package domain defines the DICOM device configuration model: a Device owns
// its network connections, application entities (each owning transfer
// capabilities), web applications and Keycloak credential clients. Application
// entities and web applications reference the device's connections by pointer.
package domain

import (
	"slices"
	"time"
)

// Wildcard is the AE title or web application name meaning "any"; it is never
// reserved in the uniqueness registries.
const Wildcard = "*"

// Device is the root of a device configuration.
type Device struct {
	// Name identifies the device; the device entry DN is derived from it.
	Name string
	// UID is the device UID, assigned on first persist when empty.
	UID                          string
	Description                  string
	Manufacturer                 string
	ManufacturerModelName        string
	SoftwareVersions             []string
	StationName                  string
	DeviceSerialNumber           string
	PrimaryDeviceTypes           []string
	InstitutionNames             []string
	InstitutionalDepartmentNames []string
	IssuerOfPatientID            string
	Installed                    bool
	TimeZoneOfDevice             *time.Location
	LimitOpenAssociations        int
	TrustStoreURL                string
	TrustStoreType               string
	KeyStoreURL                  string
	KeyStoreType                 string
	KeyStorePin                  string
	// RoleSelectionNegotiationLenient accepts role selection items the device did not propose.
	RoleSelectionNegotiationLenient bool
	// AuthorizedNodeCertificates maps the DN of a certificate holder entry to its certificates.
	AuthorizedNodeCertificates map[string][][]byte
	// ThisNodeCertificates maps the DN of a certificate holder entry to the device's own certificates.
	ThisNodeCertificates map[string][][]byte
	// VendorData is opaque vendor specific configuration.
	VendorData [][]byte
	// LastModified is maintained by the directory engine.
	LastModified time.Time

	Connections         []*Connection
	ApplicationEntities []*ApplicationEntity
	WebApplications     []*WebApplication
	KeycloakClients     []*KeycloakClient

	// Extensions holds payloads owned by registered configuration extensions, keyed by extension name.
	Extensions map[string]any
}

// NewDevice returns a device with default settings.
func NewDevice(name string) *Device {
	return &Device{Name: name, Installed: true}
}

// AddConnection appends conn to the device.
func (d *Device) AddConnection(conn *Connection) {
	d.Connections = append(d.Connections, conn)
}

// RemoveConnection removes conn from the device and from every AE and web
// application referencing it.
func (d *Device) RemoveConnection(conn *Connection) {
	d.Connections = slices.DeleteFunc(d.Connections, func(c *Connection) bool { return c == conn })
	for _, ae := range d.ApplicationEntities {
		ae.Connections = slices.DeleteFunc(ae.Connections, func(c *Connection) bool { return c == conn })
	}
	for _, wa := range d.WebApplications {
		wa.Connections = slices.DeleteFunc(wa.Connections, func(c *Connection) bool { return c == conn })
	}
}

// AddApplicationEntity appends ae to the device.
func (d *Device) AddApplicationEntity(ae *ApplicationEntity) {
	d.ApplicationEntities = append(d.ApplicationEntities, ae)
}

// ApplicationEntity returns the AE with the given title.
func (d *Device) ApplicationEntity(title string) (*ApplicationEntity, bool) {
	for _, ae := range d.ApplicationEntities {
		if ae.AETitle == title {
			return ae, true
		}
	}
	return nil, false
}

// RemoveApplicationEntity removes the AE with the given title.
func (d *Device) RemoveApplicationEntity(title string) {
	d.ApplicationEntities = slices.DeleteFunc(d.ApplicationEntities, func(ae *ApplicationEntity) bool {
		return ae.AETitle == title
	})
}

// AETitles returns the titles of all AEs of the device.
func (d *Device) AETitles() []string {
	titles := make([]string, 0, len(d.ApplicationEntities))
	for _, ae := range d.ApplicationEntities {
		titles = append(titles, ae.AETitle)
	}
	return titles
}

// AddWebApplication appends wa to the device.
func (d *Device) AddWebApplication(wa *WebApplication) {
	d.WebApplications = append(d.WebApplications, wa)
}

// WebApplication returns the web application with the given name.
func (d *Device) WebApplication(name string) (*WebApplication, bool) {
	for _, wa := range d.WebApplications {
		if wa.Name == name {
			return wa, true
		}
	}
	return nil, false
}

// WebApplicationNames returns the names of all web applications of the device.
func (d *Device) WebApplicationNames() []string {
	names := make([]string, 0, len(d.WebApplications))
	for _, wa := range d.WebApplications {
		names = append(names, wa.Name)
	}
	return names
}

// AddKeycloakClient appends client to the device.
func (d *Device) AddKeycloakClient(client *KeycloakClient) {
	d.KeycloakClients = append(d.KeycloakClients, client)
}

// KeycloakClient returns the credential client with the given id.
func (d *Device) KeycloakClient(id string) (*KeycloakClient, bool) {
	for _, c := range d.KeycloakClients {
		if c.ClientID == id {
			return c, true
		}
	}
	return nil, false
}

// SetExtension stores the payload of the named extension.
func (d *Device) SetExtension(name string, payload any) {
	if d.Extensions == nil {
		d.Extensions = make(map[string]any)
	}
	d.Extensions[name] = payload
}

// Extension returns the payload of the named extension.
func (d *Device) Extension(name string) (any, bool) {
	payload, ok := d.Extensions[name]
	return payload, ok
}

// AuthorizedNodeCertificateRefs returns the sorted DNs of authorized node certificates.
func (d *Device) AuthorizedNodeCertificateRefs() []string {
	return sortedKeys(d.AuthorizedNodeCertificates)
}

// ThisNodeCertificateRefs returns the sorted DNs of this node's certificates.
func (d *Device) ThisNodeCertificateRefs() []string {
	return sortedKeys(d.ThisNodeCertificates)
}

// SetAuthorizedNodeCertificates sets the certificates held at dn.
func (d *Device) SetAuthorizedNodeCertificates(dn string, certs ...[]byte) {
	if d.AuthorizedNodeCertificates == nil {
		d.AuthorizedNodeCertificates = make(map[string][][]byte)
	}
	d.AuthorizedNodeCertificates[dn] = certs
}

// SetThisNodeCertificates sets the certificates held at dn.
func (d *Device) SetThisNodeCertificates(dn string, certs ...[]byte) {
	if d.ThisNodeCertificates == nil {
		d.ThisNodeCertificates = make(map[string][][]byte)
	}
	d.ThisNodeCertificates[dn] = certs
}

func sortedKeys(m map[string][][]byte) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
