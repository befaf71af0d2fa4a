// Package dto provides data transfer objects for HTTP request and response handling.
// The device document defined here is also the file format of device imports.
package dto

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/dicomconf/internal/device/domain"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// DeviceDocument is the serialized form of a device with all its children.
// Connections of AEs and web applications are referenced by connection key:
// the connection name, else "hostname:port" for listening connections, else
// the hostname. A reference containing "=" is the DN of a connection owned by
// another device.
type DeviceDocument struct {
	Name                            string                   `json:"name"                                         yaml:"name"`
	UID                             string                   `json:"uid,omitempty"                                yaml:"uid,omitempty"`
	Description                     string                   `json:"description,omitempty"                        yaml:"description,omitempty"`
	Manufacturer                    string                   `json:"manufacturer,omitempty"                       yaml:"manufacturer,omitempty"`
	ManufacturerModelName           string                   `json:"manufacturer_model_name,omitempty"            yaml:"manufacturer_model_name,omitempty"`
	SoftwareVersions                []string                 `json:"software_versions,omitempty"                  yaml:"software_versions,omitempty"`
	StationName                     string                   `json:"station_name,omitempty"                       yaml:"station_name,omitempty"`
	DeviceSerialNumber              string                   `json:"device_serial_number,omitempty"               yaml:"device_serial_number,omitempty"`
	PrimaryDeviceTypes              []string                 `json:"primary_device_types,omitempty"               yaml:"primary_device_types,omitempty"`
	InstitutionNames                []string                 `json:"institution_names,omitempty"                  yaml:"institution_names,omitempty"`
	InstitutionalDepartmentNames    []string                 `json:"institutional_department_names,omitempty"     yaml:"institutional_department_names,omitempty"`
	IssuerOfPatientID               string                   `json:"issuer_of_patient_id,omitempty"               yaml:"issuer_of_patient_id,omitempty"`
	Installed                       *bool                    `json:"installed,omitempty"                          yaml:"installed,omitempty"`
	TimeZone                        string                   `json:"time_zone,omitempty"                          yaml:"time_zone,omitempty"`
	LimitOpenAssociations           int                      `json:"limit_open_associations,omitempty"            yaml:"limit_open_associations,omitempty"`
	TrustStoreURL                   string                   `json:"trust_store_url,omitempty"                    yaml:"trust_store_url,omitempty"`
	TrustStoreType                  string                   `json:"trust_store_type,omitempty"                   yaml:"trust_store_type,omitempty"`
	KeyStoreURL                     string                   `json:"key_store_url,omitempty"                      yaml:"key_store_url,omitempty"`
	KeyStoreType                    string                   `json:"key_store_type,omitempty"                     yaml:"key_store_type,omitempty"`
	KeyStorePin                     string                   `json:"key_store_pin,omitempty"                      yaml:"key_store_pin,omitempty"`
	RoleSelectionNegotiationLenient bool                     `json:"role_selection_negotiation_lenient,omitempty" yaml:"role_selection_negotiation_lenient,omitempty"`
	AuthorizedNodeCertificates      map[string][]string      `json:"authorized_node_certificates,omitempty"       yaml:"authorized_node_certificates,omitempty"`
	ThisNodeCertificates            map[string][]string      `json:"this_node_certificates,omitempty"             yaml:"this_node_certificates,omitempty"`
	VendorData                      []string                 `json:"vendor_data,omitempty"                        yaml:"vendor_data,omitempty"`
	LastModified                    *time.Time               `json:"last_modified,omitempty"                      yaml:"last_modified,omitempty"`
	Connections                     []ConnectionDocument     `json:"connections,omitempty"                        yaml:"connections,omitempty"`
	ApplicationEntities             []AEDocument             `json:"application_entities,omitempty"               yaml:"application_entities,omitempty"`
	WebApplications                 []WebAppDocument         `json:"web_applications,omitempty"                   yaml:"web_applications,omitempty"`
	KeycloakClients                 []KeycloakClientDocument `json:"keycloak_clients,omitempty"                     yaml:"keycloak_clients,omitempty"`
}

// ConnectionDocument is the serialized form of a network connection.
type ConnectionDocument struct {
	Name                 string   `json:"name,omitempty"                  yaml:"name,omitempty"`
	Hostname             string   `json:"hostname"                        yaml:"hostname"`
	Port                 *int     `json:"port,omitempty"                  yaml:"port,omitempty"`
	Protocol             string   `json:"protocol,omitempty"              yaml:"protocol,omitempty"`
	TLSCipherSuites      []string `json:"tls_cipher_suites,omitempty"     yaml:"tls_cipher_suites,omitempty"`
	TLSProtocols         []string `json:"tls_protocols,omitempty"         yaml:"tls_protocols,omitempty"`
	TLSNeedClientAuth    *bool    `json:"tls_need_client_auth,omitempty"  yaml:"tls_need_client_auth,omitempty"`
	Installed            *bool    `json:"installed,omitempty"             yaml:"installed,omitempty"`
	BindAddress          string   `json:"bind_address,omitempty"          yaml:"bind_address,omitempty"`
	ConnectTimeout       int      `json:"connect_timeout,omitempty"       yaml:"connect_timeout,omitempty"`
	IdleTimeout          int      `json:"idle_timeout,omitempty"          yaml:"idle_timeout,omitempty"`
	SendPDULength        int      `json:"send_pdu_length,omitempty"       yaml:"send_pdu_length,omitempty"`
	BlacklistedHostnames []string `json:"blacklisted_hostnames,omitempty" yaml:"blacklisted_hostnames,omitempty"`
}

// AEDocument is the serialized form of an application entity.
type AEDocument struct {
	AETitle                  string                       `json:"ae_title"                              yaml:"ae_title"`
	Description              string                       `json:"description,omitempty"                 yaml:"description,omitempty"`
	AssociationInitiator     *bool                        `json:"association_initiator,omitempty"       yaml:"association_initiator,omitempty"`
	AssociationAcceptor      *bool                        `json:"association_acceptor,omitempty"        yaml:"association_acceptor,omitempty"`
	ApplicationClusters      []string                     `json:"application_clusters,omitempty"        yaml:"application_clusters,omitempty"`
	PreferredCalledAETitles  []string                     `json:"preferred_called_ae_titles,omitempty"  yaml:"preferred_called_ae_titles,omitempty"`
	PreferredCallingAETitles []string                     `json:"preferred_calling_ae_titles,omitempty" yaml:"preferred_calling_ae_titles,omitempty"`
	AcceptedCallingAETitles  []string                     `json:"accepted_calling_ae_titles,omitempty"  yaml:"accepted_calling_ae_titles,omitempty"`
	SupportedCharacterSets   []string                     `json:"supported_character_sets,omitempty"    yaml:"supported_character_sets,omitempty"`
	Installed                *bool                        `json:"installed,omitempty"                   yaml:"installed,omitempty"`
	Connections              []string                     `json:"connections,omitempty"                 yaml:"connections,omitempty"`
	TransferCapabilities     []TransferCapabilityDocument `json:"transfer_capabilities,omitempty"       yaml:"transfer_capabilities,omitempty"`
}

// TransferCapabilityDocument is the serialized form of a transfer capability.
type TransferCapabilityDocument struct {
	Name             string                  `json:"name,omitempty"            yaml:"name,omitempty"`
	SOPClass         string                  `json:"sop_class"                 yaml:"sop_class"`
	Role             string                  `json:"role"                      yaml:"role"`
	TransferSyntaxes []string                `json:"transfer_syntaxes"         yaml:"transfer_syntaxes"`
	QueryOptions     *QueryOptionsDocument   `json:"query_options,omitempty"   yaml:"query_options,omitempty"`
	StorageOptions   *StorageOptionsDocument `json:"storage_options,omitempty" yaml:"storage_options,omitempty"`
}

// QueryOptionsDocument holds the extended negotiation flags of query SOP classes.
type QueryOptionsDocument struct {
	Relational            bool `json:"relational,omitempty"              yaml:"relational,omitempty"`
	DatetimeMatching      bool `json:"datetime_matching,omitempty"       yaml:"datetime_matching,omitempty"`
	FuzzySemanticMatching bool `json:"fuzzy_semantic_matching,omitempty" yaml:"fuzzy_semantic_matching,omitempty"`
	TimezoneAdjustment    bool `json:"timezone_adjustment,omitempty"     yaml:"timezone_adjustment,omitempty"`
}

// StorageOptionsDocument holds the extended negotiation settings of storage SOP classes.
type StorageOptionsDocument struct {
	LevelOfSupport          int `json:"level_of_support"          yaml:"level_of_support"`
	DigitalSignatureSupport int `json:"digital_signature_support" yaml:"digital_signature_support"`
	ElementCoercion         int `json:"element_coercion"          yaml:"element_coercion"`
}

// WebAppDocument is the serialized form of a web application.
type WebAppDocument struct {
	Name                string            `json:"name"                           yaml:"name"`
	Description         string            `json:"description,omitempty"          yaml:"description,omitempty"`
	ServicePath         string            `json:"service_path"                   yaml:"service_path"`
	ServiceClasses      []string          `json:"service_classes,omitempty"      yaml:"service_classes,omitempty"`
	AETitle             string            `json:"ae_title,omitempty"             yaml:"ae_title,omitempty"`
	ApplicationClusters []string          `json:"application_clusters,omitempty" yaml:"application_clusters,omitempty"`
	KeycloakClientID    string            `json:"keycloak_client_id,omitempty"   yaml:"keycloak_client_id,omitempty"`
	Properties          map[string]string `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Installed           *bool             `json:"installed,omitempty"            yaml:"installed,omitempty"`
	Connections         []string          `json:"connections,omitempty"          yaml:"connections,omitempty"`
}

// KeycloakClientDocument is the serialized form of a Keycloak credential client.
type KeycloakClientDocument struct {
	ClientID               string `json:"client_id"                           yaml:"client_id"`
	KeycloakServerURL      string `json:"keycloak_server_url,omitempty"       yaml:"keycloak_server_url,omitempty"`
	Realm                  string `json:"realm,omitempty"                     yaml:"realm,omitempty"`
	GrantType              string `json:"grant_type,omitempty"                yaml:"grant_type,omitempty"`
	ClientSecret           string `json:"client_secret,omitempty"             yaml:"client_secret,omitempty"`
	UserID                 string `json:"user_id,omitempty"                   yaml:"user_id,omitempty"`
	Password               string `json:"password,omitempty"                  yaml:"password,omitempty"`
	TLSAllowAnyHostname    bool   `json:"tls_allow_any_hostname,omitempty"    yaml:"tls_allow_any_hostname,omitempty"`
	TLSDisableTrustManager bool   `json:"tls_disable_trust_manager,omitempty" yaml:"tls_disable_trust_manager,omitempty"`
}

// ConnectionKey returns the key AEs and web applications use to reference conn.
func ConnectionKey(conn *domain.Connection) string {
	switch {
	case conn.ExternalDN != "":
		return conn.ExternalDN
	case conn.CommonName != "":
		return conn.CommonName
	case conn.IsListening():
		return conn.Hostname + ":" + strconv.Itoa(conn.Port)
	default:
		return conn.Hostname
	}
}

// ToDomain converts the document into a device. Unknown connection references,
// time zones and malformed base64 values are reported as invalid input.
func (d *DeviceDocument) ToDomain() (*domain.Device, error) {
	device := domain.NewDevice(d.Name)
	device.UID = d.UID
	device.Description = d.Description
	device.Manufacturer = d.Manufacturer
	device.ManufacturerModelName = d.ManufacturerModelName
	device.SoftwareVersions = d.SoftwareVersions
	device.StationName = d.StationName
	device.DeviceSerialNumber = d.DeviceSerialNumber
	device.PrimaryDeviceTypes = d.PrimaryDeviceTypes
	device.InstitutionNames = d.InstitutionNames
	device.InstitutionalDepartmentNames = d.InstitutionalDepartmentNames
	device.IssuerOfPatientID = d.IssuerOfPatientID
	device.Installed = boolOr(d.Installed, true)
	device.LimitOpenAssociations = d.LimitOpenAssociations
	device.TrustStoreURL = d.TrustStoreURL
	device.TrustStoreType = d.TrustStoreType
	device.KeyStoreURL = d.KeyStoreURL
	device.KeyStoreType = d.KeyStoreType
	device.KeyStorePin = d.KeyStorePin
	device.RoleSelectionNegotiationLenient = d.RoleSelectionNegotiationLenient

	if d.TimeZone != "" {
		loc, err := time.LoadLocation(d.TimeZone)
		if err != nil {
			return nil, invalid("unknown time zone %q", d.TimeZone)
		}
		device.TimeZoneOfDevice = loc
	}

	var err error
	if device.AuthorizedNodeCertificates, err = decodeCertificates(d.AuthorizedNodeCertificates); err != nil {
		return nil, err
	}
	if device.ThisNodeCertificates, err = decodeCertificates(d.ThisNodeCertificates); err != nil {
		return nil, err
	}
	if device.VendorData, err = decodeAll(d.VendorData); err != nil {
		return nil, err
	}

	conns := make(map[string]*domain.Connection, len(d.Connections))
	for _, cd := range d.Connections {
		conn := cd.toDomain()
		conns[ConnectionKey(conn)] = conn
		device.AddConnection(conn)
	}

	for _, ad := range d.ApplicationEntities {
		ae, err := ad.toDomain(conns)
		if err != nil {
			return nil, err
		}
		device.AddApplicationEntity(ae)
	}
	for _, wd := range d.WebApplications {
		wa, err := wd.toDomain(conns)
		if err != nil {
			return nil, err
		}
		device.AddWebApplication(wa)
	}
	for _, kd := range d.KeycloakClients {
		device.AddKeycloakClient(kd.toDomain())
	}
	return device, nil
}

func (c ConnectionDocument) toDomain() *domain.Connection {
	port := domain.NotListening
	if c.Port != nil {
		port = *c.Port
	}
	conn := domain.NewConnection(c.Name, c.Hostname, port)
	if c.Protocol != "" {
		conn.Protocol = domain.Protocol(c.Protocol)
	}
	conn.TLSCipherSuites = c.TLSCipherSuites
	conn.TLSProtocols = c.TLSProtocols
	conn.TLSNeedClientAuth = boolOr(c.TLSNeedClientAuth, true)
	conn.Installed = c.Installed
	conn.BindAddress = c.BindAddress
	conn.ConnectTimeout = c.ConnectTimeout
	conn.IdleTimeout = c.IdleTimeout
	if c.SendPDULength != 0 {
		conn.SendPDULength = c.SendPDULength
	}
	conn.BlacklistedHostnames = c.BlacklistedHostnames
	return conn
}

func (a AEDocument) toDomain(conns map[string]*domain.Connection) (*domain.ApplicationEntity, error) {
	ae := domain.NewApplicationEntity(a.AETitle)
	ae.Description = a.Description
	ae.AssociationInitiator = boolOr(a.AssociationInitiator, true)
	ae.AssociationAcceptor = boolOr(a.AssociationAcceptor, true)
	ae.ApplicationClusters = a.ApplicationClusters
	ae.PreferredCalledAETitles = a.PreferredCalledAETitles
	ae.PreferredCallingAETitles = a.PreferredCallingAETitles
	ae.AcceptedCallingAETitles = a.AcceptedCallingAETitles
	ae.SupportedCharacterSets = a.SupportedCharacterSets
	ae.Installed = a.Installed

	refs, err := resolveConnections(conns, a.Connections, "AE "+a.AETitle)
	if err != nil {
		return nil, err
	}
	ae.Connections = refs

	for _, td := range a.TransferCapabilities {
		ae.AddTransferCapability(td.toDomain())
	}
	return ae, nil
}

func (t TransferCapabilityDocument) toDomain() *domain.TransferCapability {
	tc := domain.NewTransferCapability(t.Name, t.SOPClass, domain.TransferRole(t.Role), t.TransferSyntaxes...)
	if t.QueryOptions != nil {
		tc.QueryOptions = &domain.QueryOptions{
			Relational:            t.QueryOptions.Relational,
			DatetimeMatching:      t.QueryOptions.DatetimeMatching,
			FuzzySemanticMatching: t.QueryOptions.FuzzySemanticMatching,
			TimezoneAdjustment:    t.QueryOptions.TimezoneAdjustment,
		}
	}
	if t.StorageOptions != nil {
		tc.StorageOptions = &domain.StorageOptions{
			LevelOfSupport:          domain.LevelOfSupport(t.StorageOptions.LevelOfSupport),
			DigitalSignatureSupport: domain.DigitalSignatureSupport(t.StorageOptions.DigitalSignatureSupport),
			ElementCoercion:         domain.ElementCoercion(t.StorageOptions.ElementCoercion),
		}
	}
	return tc
}

func (w WebAppDocument) toDomain(conns map[string]*domain.Connection) (*domain.WebApplication, error) {
	classes := make([]domain.WebServiceClass, len(w.ServiceClasses))
	for i, c := range w.ServiceClasses {
		classes[i] = domain.WebServiceClass(c)
	}
	wa := domain.NewWebApplication(w.Name, w.ServicePath, classes...)
	wa.Description = w.Description
	wa.AETitle = w.AETitle
	wa.ApplicationClusters = w.ApplicationClusters
	wa.KeycloakClientID = w.KeycloakClientID
	wa.Properties = w.Properties
	wa.Installed = w.Installed

	refs, err := resolveConnections(conns, w.Connections, "web application "+w.Name)
	if err != nil {
		return nil, err
	}
	wa.Connections = refs
	return wa, nil
}

func (k KeycloakClientDocument) toDomain() *domain.KeycloakClient {
	kc := domain.NewKeycloakClient(k.ClientID, k.KeycloakServerURL, k.Realm)
	if k.GrantType != "" {
		kc.GrantType = domain.GrantType(k.GrantType)
	}
	kc.ClientSecret = k.ClientSecret
	kc.UserID = k.UserID
	kc.Password = k.Password
	kc.TLSAllowAnyHostname = k.TLSAllowAnyHostname
	kc.TLSDisableTrustManager = k.TLSDisableTrustManager
	return kc
}

// MapDeviceToDocument converts a domain device into its document form.
func MapDeviceToDocument(device *domain.Device) DeviceDocument {
	doc := DeviceDocument{
		Name:                            device.Name,
		UID:                             device.UID,
		Description:                     device.Description,
		Manufacturer:                    device.Manufacturer,
		ManufacturerModelName:           device.ManufacturerModelName,
		SoftwareVersions:                device.SoftwareVersions,
		StationName:                     device.StationName,
		DeviceSerialNumber:              device.DeviceSerialNumber,
		PrimaryDeviceTypes:              device.PrimaryDeviceTypes,
		InstitutionNames:                device.InstitutionNames,
		InstitutionalDepartmentNames:    device.InstitutionalDepartmentNames,
		IssuerOfPatientID:               device.IssuerOfPatientID,
		LimitOpenAssociations:           device.LimitOpenAssociations,
		TrustStoreURL:                   device.TrustStoreURL,
		TrustStoreType:                  device.TrustStoreType,
		KeyStoreURL:                     device.KeyStoreURL,
		KeyStoreType:                    device.KeyStoreType,
		KeyStorePin:                     device.KeyStorePin,
		RoleSelectionNegotiationLenient: device.RoleSelectionNegotiationLenient,
		AuthorizedNodeCertificates:      encodeCertificates(device.AuthorizedNodeCertificates),
		ThisNodeCertificates:            encodeCertificates(device.ThisNodeCertificates),
		VendorData:                      encodeAll(device.VendorData),
	}
	if !device.Installed {
		doc.Installed = boolPtr(false)
	}
	if device.TimeZoneOfDevice != nil {
		doc.TimeZone = device.TimeZoneOfDevice.String()
	}
	if !device.LastModified.IsZero() {
		lastModified := device.LastModified
		doc.LastModified = &lastModified
	}

	for _, conn := range device.Connections {
		doc.Connections = append(doc.Connections, mapConnection(conn))
	}
	for _, ae := range device.ApplicationEntities {
		doc.ApplicationEntities = append(doc.ApplicationEntities, MapApplicationEntity(ae))
	}
	for _, wa := range device.WebApplications {
		doc.WebApplications = append(doc.WebApplications, MapWebApplication(wa))
	}
	for _, kc := range device.KeycloakClients {
		doc.KeycloakClients = append(doc.KeycloakClients, KeycloakClientDocument{
			ClientID:               kc.ClientID,
			KeycloakServerURL:      kc.KeycloakServerURL,
			Realm:                  kc.Realm,
			GrantType:              string(kc.GrantType),
			ClientSecret:           kc.ClientSecret,
			UserID:                 kc.UserID,
			Password:               kc.Password,
			TLSAllowAnyHostname:    kc.TLSAllowAnyHostname,
			TLSDisableTrustManager: kc.TLSDisableTrustManager,
		})
	}
	return doc
}

func mapConnection(conn *domain.Connection) ConnectionDocument {
	doc := ConnectionDocument{
		Name:                 conn.CommonName,
		Hostname:             conn.Hostname,
		TLSCipherSuites:      conn.TLSCipherSuites,
		TLSProtocols:         conn.TLSProtocols,
		Installed:            conn.Installed,
		BindAddress:          conn.BindAddress,
		ConnectTimeout:       conn.ConnectTimeout,
		IdleTimeout:          conn.IdleTimeout,
		SendPDULength:        conn.SendPDULength,
		BlacklistedHostnames: conn.BlacklistedHostnames,
	}
	if conn.Port != domain.NotListening {
		port := conn.Port
		doc.Port = &port
	}
	if conn.Protocol != domain.ProtocolDICOM {
		doc.Protocol = string(conn.Protocol)
	}
	if !conn.TLSNeedClientAuth {
		doc.TLSNeedClientAuth = boolPtr(false)
	}
	return doc
}

// MapApplicationEntity converts a domain AE into its document form.
func MapApplicationEntity(ae *domain.ApplicationEntity) AEDocument {
	doc := AEDocument{
		AETitle:                  ae.AETitle,
		Description:              ae.Description,
		ApplicationClusters:      ae.ApplicationClusters,
		PreferredCalledAETitles:  ae.PreferredCalledAETitles,
		PreferredCallingAETitles: ae.PreferredCallingAETitles,
		AcceptedCallingAETitles:  ae.AcceptedCallingAETitles,
		SupportedCharacterSets:   ae.SupportedCharacterSets,
		Installed:                ae.Installed,
		Connections:              connectionKeys(ae.Connections),
	}
	if !ae.AssociationInitiator {
		doc.AssociationInitiator = boolPtr(false)
	}
	if !ae.AssociationAcceptor {
		doc.AssociationAcceptor = boolPtr(false)
	}
	for _, tc := range ae.TransferCapabilities {
		td := TransferCapabilityDocument{
			Name:             tc.CommonName,
			SOPClass:         tc.SOPClass,
			Role:             string(tc.Role),
			TransferSyntaxes: tc.TransferSyntaxes,
		}
		if q := tc.QueryOptions; q != nil {
			td.QueryOptions = &QueryOptionsDocument{
				Relational:            q.Relational,
				DatetimeMatching:      q.DatetimeMatching,
				FuzzySemanticMatching: q.FuzzySemanticMatching,
				TimezoneAdjustment:    q.TimezoneAdjustment,
			}
		}
		if s := tc.StorageOptions; s != nil {
			td.StorageOptions = &StorageOptionsDocument{
				LevelOfSupport:          int(s.LevelOfSupport),
				DigitalSignatureSupport: int(s.DigitalSignatureSupport),
				ElementCoercion:         int(s.ElementCoercion),
			}
		}
		doc.TransferCapabilities = append(doc.TransferCapabilities, td)
	}
	return doc
}

// MapWebApplication converts a domain web application into its document form.
func MapWebApplication(wa *domain.WebApplication) WebAppDocument {
	classes := make([]string, len(wa.ServiceClasses))
	for i, c := range wa.ServiceClasses {
		classes[i] = string(c)
	}
	return WebAppDocument{
		Name:                wa.Name,
		Description:         wa.Description,
		ServicePath:         wa.ServicePath,
		ServiceClasses:      classes,
		AETitle:             wa.AETitle,
		ApplicationClusters: wa.ApplicationClusters,
		KeycloakClientID:    wa.KeycloakClientID,
		Properties:          wa.Properties,
		Installed:           wa.Installed,
		Connections:         connectionKeys(wa.Connections),
	}
}

func resolveConnections(conns map[string]*domain.Connection, refs []string, owner string) ([]*domain.Connection, error) {
	out := make([]*domain.Connection, 0, len(refs))
	for _, ref := range refs {
		if conn, ok := conns[ref]; ok {
			out = append(out, conn)
			continue
		}
		if strings.Contains(ref, "=") {
			out = append(out, &domain.Connection{ExternalDN: ref, Port: domain.NotListening})
			continue
		}
		return nil, invalid("%s references unknown connection %q", owner, ref)
	}
	return out, nil
}

func connectionKeys(conns []*domain.Connection) []string {
	if len(conns) == 0 {
		return nil
	}
	keys := make([]string, len(conns))
	for i, conn := range conns {
		keys[i] = ConnectionKey(conn)
	}
	return keys
}

func decodeCertificates(in map[string][]string) (map[string][][]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string][][]byte, len(in))
	for dn, values := range in {
		certs, err := decodeAll(values)
		if err != nil {
			return nil, err
		}
		out[dn] = certs
	}
	return out, nil
}

func encodeCertificates(in map[string][][]byte) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for dn, certs := range in {
		out[dn] = encodeAll(certs)
	}
	return out
}

func decodeAll(values []string) ([][]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([][]byte, len(values))
	for i, v := range values {
		b, err := customValidation.DecodeBinary(v)
		if err != nil {
			return nil, invalid("invalid binary value: %v", err)
		}
		out[i] = b
	}
	return out, nil
}

func encodeAll(values [][]byte) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = base64.StdEncoding.EncodeToString(v)
	}
	return out
}

func invalid(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func boolPtr(b bool) *bool {
	return &b
}
