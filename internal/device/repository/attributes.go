package repository

import (
	"strings"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	"github.com/allisson/dicomconf/internal/ldapcodec"
)

func objectClasses(classes ...string) directory.Attributes {
	return directory.Attributes{attrObjectClass: classes}
}

// Device

func deviceAttributes(device *domain.Device, storeCertificateRefs bool) directory.Attributes {
	attrs := objectClasses(ocDevice, ocDcmDevice)
	attrs.Put(attrDeviceName, device.Name)
	ldapcodec.StoreNotDefault(attrs, attrDeviceUID, device.UID, "")
	ldapcodec.StoreNotDefault(attrs, attrDescription, device.Description, "")
	ldapcodec.StoreNotDefault(attrs, attrManufacturer, device.Manufacturer, "")
	ldapcodec.StoreNotDefault(attrs, attrManufacturerModelName, device.ManufacturerModelName, "")
	ldapcodec.StoreNotEmpty(attrs, attrSoftwareVersion, device.SoftwareVersions)
	ldapcodec.StoreNotDefault(attrs, attrStationName, device.StationName, "")
	ldapcodec.StoreNotDefault(attrs, attrDeviceSerialNumber, device.DeviceSerialNumber, "")
	ldapcodec.StoreNotEmpty(attrs, attrPrimaryDeviceType, device.PrimaryDeviceTypes)
	ldapcodec.StoreNotEmpty(attrs, attrInstitutionName, device.InstitutionNames)
	ldapcodec.StoreNotEmpty(attrs, attrInstitutionDepartmentName, device.InstitutionalDepartmentNames)
	ldapcodec.StoreNotDefault(attrs, attrIssuerOfPatientID, device.IssuerOfPatientID, "")
	ldapcodec.StoreRequired(attrs, attrInstalled, device.Installed)
	ldapcodec.StoreTimeZone(attrs, attrTimeZoneOfDevice, device.TimeZoneOfDevice)
	ldapcodec.StoreNotDefault(attrs, attrLimitOpenAssociations, device.LimitOpenAssociations, 0)
	ldapcodec.StoreNotDefault(attrs, attrTrustStoreURL, device.TrustStoreURL, "")
	ldapcodec.StoreNotDefault(attrs, attrTrustStoreType, device.TrustStoreType, "")
	ldapcodec.StoreNotDefault(attrs, attrKeyStoreURL, device.KeyStoreURL, "")
	ldapcodec.StoreNotDefault(attrs, attrKeyStoreType, device.KeyStoreType, "")
	ldapcodec.StoreNotDefault(attrs, attrKeyStorePin, device.KeyStorePin, "")
	ldapcodec.StoreNotDefault(attrs, attrRoleSelectionNegotiationLenient, device.RoleSelectionNegotiationLenient, false)
	if storeCertificateRefs {
		ldapcodec.StoreNotEmpty(attrs, attrAuthorizedNodeCertificateRef, device.AuthorizedNodeCertificateRefs())
		ldapcodec.StoreNotEmpty(attrs, attrThisNodeCertificateRef, device.ThisNodeCertificateRefs())
	}
	ldapcodec.StoreBytes(attrs, attrVendorData, device.VendorData)
	return attrs
}

// loadDeviceAttributes fills device from its entry. Certificate references
// are returned so the caller can resolve them.
func loadDeviceAttributes(device *domain.Device, attrs directory.Attributes) (authorized, thisNode []string) {
	device.Name = ldapcodec.String(attrs, attrDeviceName, "")
	device.UID = ldapcodec.String(attrs, attrDeviceUID, "")
	device.Description = ldapcodec.String(attrs, attrDescription, "")
	device.Manufacturer = ldapcodec.String(attrs, attrManufacturer, "")
	device.ManufacturerModelName = ldapcodec.String(attrs, attrManufacturerModelName, "")
	device.SoftwareVersions = ldapcodec.Strings(attrs, attrSoftwareVersion)
	device.StationName = ldapcodec.String(attrs, attrStationName, "")
	device.DeviceSerialNumber = ldapcodec.String(attrs, attrDeviceSerialNumber, "")
	device.PrimaryDeviceTypes = ldapcodec.Strings(attrs, attrPrimaryDeviceType)
	device.InstitutionNames = ldapcodec.Strings(attrs, attrInstitutionName)
	device.InstitutionalDepartmentNames = ldapcodec.Strings(attrs, attrInstitutionDepartmentName)
	device.IssuerOfPatientID = ldapcodec.String(attrs, attrIssuerOfPatientID, "")
	device.Installed = ldapcodec.Bool(attrs, attrInstalled, true)
	device.TimeZoneOfDevice = ldapcodec.TimeZone(attrs, attrTimeZoneOfDevice)
	device.LimitOpenAssociations = ldapcodec.Int(attrs, attrLimitOpenAssociations, 0)
	device.TrustStoreURL = ldapcodec.String(attrs, attrTrustStoreURL, "")
	device.TrustStoreType = ldapcodec.String(attrs, attrTrustStoreType, "")
	device.KeyStoreURL = ldapcodec.String(attrs, attrKeyStoreURL, "")
	device.KeyStoreType = ldapcodec.String(attrs, attrKeyStoreType, "")
	device.KeyStorePin = ldapcodec.String(attrs, attrKeyStorePin, "")
	device.RoleSelectionNegotiationLenient = ldapcodec.Bool(attrs, attrRoleSelectionNegotiationLenient, false)
	device.VendorData = ldapcodec.Bytes(attrs, attrVendorData)
	device.LastModified = ldapcodec.Time(attrs, attrLastModified)
	return ldapcodec.Strings(attrs, attrAuthorizedNodeCertificateRef), ldapcodec.Strings(attrs, attrThisNodeCertificateRef)
}

func deviceDiffs(prev, device *domain.Device, opts domain.Options) []directory.Modification {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrDeviceUID, prev.UID, device.UID, "")
	mods = ldapcodec.StoreDiff(mods, attrDescription, prev.Description, device.Description, "")
	mods = ldapcodec.StoreDiff(mods, attrManufacturer, prev.Manufacturer, device.Manufacturer, "")
	mods = ldapcodec.StoreDiff(mods, attrManufacturerModelName, prev.ManufacturerModelName, device.ManufacturerModelName, "")
	mods = ldapcodec.StoreDiffList(mods, attrSoftwareVersion, prev.SoftwareVersions, device.SoftwareVersions)
	mods = ldapcodec.StoreDiff(mods, attrStationName, prev.StationName, device.StationName, "")
	mods = ldapcodec.StoreDiff(mods, attrDeviceSerialNumber, prev.DeviceSerialNumber, device.DeviceSerialNumber, "")
	mods = ldapcodec.StoreDiffList(mods, attrPrimaryDeviceType, prev.PrimaryDeviceTypes, device.PrimaryDeviceTypes)
	mods = ldapcodec.StoreDiffList(mods, attrInstitutionName, prev.InstitutionNames, device.InstitutionNames)
	mods = ldapcodec.StoreDiffList(mods, attrInstitutionDepartmentName,
		prev.InstitutionalDepartmentNames, device.InstitutionalDepartmentNames)
	mods = ldapcodec.StoreDiff(mods, attrIssuerOfPatientID, prev.IssuerOfPatientID, device.IssuerOfPatientID, "")
	mods = ldapcodec.StoreDiffRequired(mods, attrInstalled, prev.Installed, device.Installed)
	mods = ldapcodec.StoreDiffTimeZone(mods, attrTimeZoneOfDevice, prev.TimeZoneOfDevice, device.TimeZoneOfDevice)
	mods = ldapcodec.StoreDiff(mods, attrLimitOpenAssociations, prev.LimitOpenAssociations, device.LimitOpenAssociations, 0)
	mods = ldapcodec.StoreDiff(mods, attrTrustStoreURL, prev.TrustStoreURL, device.TrustStoreURL, "")
	mods = ldapcodec.StoreDiff(mods, attrTrustStoreType, prev.TrustStoreType, device.TrustStoreType, "")
	mods = ldapcodec.StoreDiff(mods, attrKeyStoreURL, prev.KeyStoreURL, device.KeyStoreURL, "")
	mods = ldapcodec.StoreDiff(mods, attrKeyStoreType, prev.KeyStoreType, device.KeyStoreType, "")
	mods = ldapcodec.StoreDiff(mods, attrKeyStorePin, prev.KeyStorePin, device.KeyStorePin, "")
	mods = ldapcodec.StoreDiff(mods, attrRoleSelectionNegotiationLenient,
		prev.RoleSelectionNegotiationLenient, device.RoleSelectionNegotiationLenient, false)
	if !opts.PreserveCertificates {
		mods = ldapcodec.StoreDiffRefs(mods, attrAuthorizedNodeCertificateRef,
			prev.AuthorizedNodeCertificateRefs(), device.AuthorizedNodeCertificateRefs())
		mods = ldapcodec.StoreDiffRefs(mods, attrThisNodeCertificateRef,
			prev.ThisNodeCertificateRefs(), device.ThisNodeCertificateRefs())
	}
	if !opts.PreserveVendorData {
		mods = ldapcodec.StoreDiffBytes(mods, attrVendorData, prev.VendorData, device.VendorData)
	}
	return mods
}

// Connection

func connectionAttributes(conn *domain.Connection) directory.Attributes {
	attrs := objectClasses(ocNetworkConnection, ocDcmNetworkConnection)
	ldapcodec.StoreNotDefault(attrs, attrCN, conn.CommonName, "")
	attrs.Put(attrHostname, conn.Hostname)
	ldapcodec.StoreNotDefault(attrs, attrPort, conn.Port, domain.NotListening)
	ldapcodec.StoreNotDefault(attrs, attrProtocol, conn.Protocol, domain.ProtocolDICOM)
	ldapcodec.StoreNotEmpty(attrs, attrTLSCipherSuite, conn.TLSCipherSuites)
	ldapcodec.StoreNotEmpty(attrs, attrTLSProtocol, conn.TLSProtocols)
	ldapcodec.StoreNotDefault(attrs, attrTLSNeedClientAuth, conn.TLSNeedClientAuth, true)
	ldapcodec.StoreNotNull(attrs, attrInstalled, conn.Installed)
	ldapcodec.StoreNotDefault(attrs, attrBindAddress, conn.BindAddress, "")
	ldapcodec.StoreNotDefault(attrs, attrConnectTimeout, conn.ConnectTimeout, 0)
	ldapcodec.StoreNotDefault(attrs, attrIdleTimeout, conn.IdleTimeout, 0)
	ldapcodec.StoreNotDefault(attrs, attrSendPDULength, conn.SendPDULength, domain.DefaultSendPDULength)
	ldapcodec.StoreNotEmpty(attrs, attrBlacklistedHostname, conn.BlacklistedHostnames)
	return attrs
}

func loadConnection(attrs directory.Attributes) *domain.Connection {
	return &domain.Connection{
		CommonName:           ldapcodec.String(attrs, attrCN, ""),
		Hostname:             ldapcodec.String(attrs, attrHostname, ""),
		Port:                 ldapcodec.Int(attrs, attrPort, domain.NotListening),
		Protocol:             ldapcodec.Enum(attrs, attrProtocol, domain.ProtocolDICOM),
		TLSCipherSuites:      ldapcodec.Strings(attrs, attrTLSCipherSuite),
		TLSProtocols:         ldapcodec.Strings(attrs, attrTLSProtocol),
		TLSNeedClientAuth:    ldapcodec.Bool(attrs, attrTLSNeedClientAuth, true),
		Installed:            ldapcodec.OptionalBool(attrs, attrInstalled),
		BindAddress:          ldapcodec.String(attrs, attrBindAddress, ""),
		ConnectTimeout:       ldapcodec.Int(attrs, attrConnectTimeout, 0),
		IdleTimeout:          ldapcodec.Int(attrs, attrIdleTimeout, 0),
		SendPDULength:        ldapcodec.Int(attrs, attrSendPDULength, domain.DefaultSendPDULength),
		BlacklistedHostnames: ldapcodec.Strings(attrs, attrBlacklistedHostname),
	}
}

func connectionDiffs(prev, conn *domain.Connection) []directory.Modification {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrCN, prev.CommonName, conn.CommonName, "")
	mods = ldapcodec.StoreDiffRequired(mods, attrHostname, prev.Hostname, conn.Hostname)
	mods = ldapcodec.StoreDiff(mods, attrPort, prev.Port, conn.Port, domain.NotListening)
	mods = ldapcodec.StoreDiff(mods, attrProtocol, prev.Protocol, conn.Protocol, domain.ProtocolDICOM)
	mods = ldapcodec.StoreDiffList(mods, attrTLSCipherSuite, prev.TLSCipherSuites, conn.TLSCipherSuites)
	mods = ldapcodec.StoreDiffList(mods, attrTLSProtocol, prev.TLSProtocols, conn.TLSProtocols)
	mods = ldapcodec.StoreDiff(mods, attrTLSNeedClientAuth, prev.TLSNeedClientAuth, conn.TLSNeedClientAuth, true)
	mods = ldapcodec.StoreDiffNullable(mods, attrInstalled, prev.Installed, conn.Installed)
	mods = ldapcodec.StoreDiff(mods, attrBindAddress, prev.BindAddress, conn.BindAddress, "")
	mods = ldapcodec.StoreDiff(mods, attrConnectTimeout, prev.ConnectTimeout, conn.ConnectTimeout, 0)
	mods = ldapcodec.StoreDiff(mods, attrIdleTimeout, prev.IdleTimeout, conn.IdleTimeout, 0)
	mods = ldapcodec.StoreDiff(mods, attrSendPDULength, prev.SendPDULength, conn.SendPDULength, domain.DefaultSendPDULength)
	mods = ldapcodec.StoreDiffList(mods, attrBlacklistedHostname, prev.BlacklistedHostnames, conn.BlacklistedHostnames)
	return mods
}

// Application entity

func aeAttributes(ae *domain.ApplicationEntity, deviceDN string) directory.Attributes {
	attrs := objectClasses(ocNetworkAE, ocDcmNetworkAE)
	attrs.Put(attrAETitle, ae.AETitle)
	ldapcodec.StoreNotDefault(attrs, attrDescription, ae.Description, "")
	ldapcodec.StoreRequired(attrs, attrAssociationInitiator, ae.AssociationInitiator)
	ldapcodec.StoreRequired(attrs, attrAssociationAcceptor, ae.AssociationAcceptor)
	ldapcodec.StoreNotEmpty(attrs, attrApplicationCluster, ae.ApplicationClusters)
	ldapcodec.StoreNotEmpty(attrs, attrPreferredCalledAETitle, ae.PreferredCalledAETitles)
	ldapcodec.StoreNotEmpty(attrs, attrPreferredCallingAETitle, ae.PreferredCallingAETitles)
	ldapcodec.StoreNotEmpty(attrs, attrAcceptedCallingAETitle, ae.AcceptedCallingAETitles)
	ldapcodec.StoreNotEmpty(attrs, attrSupportedCharacterSet, ae.SupportedCharacterSets)
	ldapcodec.StoreNotNull(attrs, attrInstalled, ae.Installed)
	ldapcodec.StoreNotEmpty(attrs, attrNetworkConnectionRef, connectionRefs(ae.Connections, deviceDN))
	return attrs
}

func loadApplicationEntity(attrs directory.Attributes) *domain.ApplicationEntity {
	return &domain.ApplicationEntity{
		AETitle:                  ldapcodec.String(attrs, attrAETitle, ""),
		Description:              ldapcodec.String(attrs, attrDescription, ""),
		AssociationInitiator:     ldapcodec.Bool(attrs, attrAssociationInitiator, false),
		AssociationAcceptor:      ldapcodec.Bool(attrs, attrAssociationAcceptor, false),
		ApplicationClusters:      ldapcodec.Strings(attrs, attrApplicationCluster),
		PreferredCalledAETitles:  ldapcodec.Strings(attrs, attrPreferredCalledAETitle),
		PreferredCallingAETitles: ldapcodec.Strings(attrs, attrPreferredCallingAETitle),
		AcceptedCallingAETitles:  ldapcodec.Strings(attrs, attrAcceptedCallingAETitle),
		SupportedCharacterSets:   ldapcodec.Strings(attrs, attrSupportedCharacterSet),
		Installed:                ldapcodec.OptionalBool(attrs, attrInstalled),
	}
}

func aeDiffs(prev, ae *domain.ApplicationEntity, deviceDN string) []directory.Modification {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrDescription, prev.Description, ae.Description, "")
	mods = ldapcodec.StoreDiffRequired(mods, attrAssociationInitiator, prev.AssociationInitiator, ae.AssociationInitiator)
	mods = ldapcodec.StoreDiffRequired(mods, attrAssociationAcceptor, prev.AssociationAcceptor, ae.AssociationAcceptor)
	mods = ldapcodec.StoreDiffList(mods, attrApplicationCluster, prev.ApplicationClusters, ae.ApplicationClusters)
	mods = ldapcodec.StoreDiffList(mods, attrPreferredCalledAETitle, prev.PreferredCalledAETitles, ae.PreferredCalledAETitles)
	mods = ldapcodec.StoreDiffList(mods, attrPreferredCallingAETitle,
		prev.PreferredCallingAETitles, ae.PreferredCallingAETitles)
	mods = ldapcodec.StoreDiffList(mods, attrAcceptedCallingAETitle, prev.AcceptedCallingAETitles, ae.AcceptedCallingAETitles)
	mods = ldapcodec.StoreDiffList(mods, attrSupportedCharacterSet, prev.SupportedCharacterSets, ae.SupportedCharacterSets)
	mods = ldapcodec.StoreDiffNullable(mods, attrInstalled, prev.Installed, ae.Installed)
	mods = ldapcodec.StoreDiffRefs(mods, attrNetworkConnectionRef,
		connectionRefs(prev.Connections, deviceDN), connectionRefs(ae.Connections, deviceDN))
	return mods
}

func connectionRefs(conns []*domain.Connection, deviceDN string) []string {
	if len(conns) == 0 {
		return nil
	}
	refs := make([]string, len(conns))
	for i, conn := range conns {
		refs[i] = connectionRefDN(conn, deviceDN)
	}
	return refs
}

// Transfer capability

func transferCapabilityAttributes(tc *domain.TransferCapability) (directory.Attributes, error) {
	attrs := objectClasses(ocTransferCapability, ocDcmTransferCapability)
	ldapcodec.StoreNotDefault(attrs, attrCN, tc.CommonName, "")
	attrs.Put(attrSOPClass, tc.SOPClass)
	attrs.Put(attrTransferRole, string(tc.Role))
	if err := ldapcodec.StoreOrdered(attrs, attrTransferSyntax, tc.TransferSyntaxes); err != nil {
		return nil, err
	}
	if q := tc.QueryOptions; q != nil {
		ldapcodec.StoreRequired(attrs, attrRelationalQueries, q.Relational)
		ldapcodec.StoreRequired(attrs, attrCombinedDatetimeMatching, q.DatetimeMatching)
		ldapcodec.StoreRequired(attrs, attrFuzzySemanticMatching, q.FuzzySemanticMatching)
		ldapcodec.StoreRequired(attrs, attrTimezoneQueryAdjustment, q.TimezoneAdjustment)
	}
	if s := tc.StorageOptions; s != nil {
		ldapcodec.StoreRequired(attrs, attrStorageConformance, int(s.LevelOfSupport))
		ldapcodec.StoreRequired(attrs, attrDigitalSignatureSupport, int(s.DigitalSignatureSupport))
		ldapcodec.StoreRequired(attrs, attrDataElementCoercion, int(s.ElementCoercion))
	}
	return attrs, nil
}

func loadTransferCapability(attrs directory.Attributes) *domain.TransferCapability {
	tc := &domain.TransferCapability{
		CommonName:       ldapcodec.String(attrs, attrCN, ""),
		SOPClass:         ldapcodec.String(attrs, attrSOPClass, ""),
		Role:             ldapcodec.Enum(attrs, attrTransferRole, domain.RoleSCU),
		TransferSyntaxes: ldapcodec.Ordered(attrs, attrTransferSyntax),
	}
	if attrs.Has(attrRelationalQueries) {
		tc.QueryOptions = &domain.QueryOptions{
			Relational:            ldapcodec.Bool(attrs, attrRelationalQueries, false),
			DatetimeMatching:      ldapcodec.Bool(attrs, attrCombinedDatetimeMatching, false),
			FuzzySemanticMatching: ldapcodec.Bool(attrs, attrFuzzySemanticMatching, false),
			TimezoneAdjustment:    ldapcodec.Bool(attrs, attrTimezoneQueryAdjustment, false),
		}
	}
	if attrs.Has(attrStorageConformance) {
		tc.StorageOptions = &domain.StorageOptions{
			LevelOfSupport:          ldapcodec.Ordinal(attrs, attrStorageConformance, domain.LevelOfSupportUnspecified),
			DigitalSignatureSupport: ldapcodec.Ordinal(attrs, attrDigitalSignatureSupport, domain.DigitalSignatureUnspecified),
			ElementCoercion:         ldapcodec.Ordinal(attrs, attrDataElementCoercion, domain.ElementCoercionUnspecified),
		}
	}
	return tc
}

func transferCapabilityDiffs(prev, tc *domain.TransferCapability) ([]directory.Modification, error) {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrCN, prev.CommonName, tc.CommonName, "")
	mods = ldapcodec.StoreDiffRequired(mods, attrSOPClass, prev.SOPClass, tc.SOPClass)
	mods = ldapcodec.StoreDiffRequired(mods, attrTransferRole, prev.Role, tc.Role)
	mods, err := ldapcodec.StoreDiffOrdered(mods, attrTransferSyntax, prev.TransferSyntaxes, tc.TransferSyntaxes)
	if err != nil {
		return nil, err
	}
	mods = queryOptionsDiffs(mods, prev.QueryOptions, tc.QueryOptions)
	mods = storageOptionsDiffs(mods, prev.StorageOptions, tc.StorageOptions)
	return mods, nil
}

func queryOptionsDiffs(mods []directory.Modification, prev, q *domain.QueryOptions) []directory.Modification {
	ids := []string{attrRelationalQueries, attrCombinedDatetimeMatching, attrFuzzySemanticMatching, attrTimezoneQueryAdjustment}
	switch {
	case prev == nil && q == nil:
		return mods
	case q == nil:
		for _, id := range ids {
			mods = append(mods, directory.Remove(id))
		}
		return mods
	case prev == nil:
		values := []bool{q.Relational, q.DatetimeMatching, q.FuzzySemanticMatching, q.TimezoneAdjustment}
		for i, id := range ids {
			mods = append(mods, directory.Replace(id, ldapcodec.FormatBool(values[i])))
		}
		return mods
	}
	mods = ldapcodec.StoreDiffRequired(mods, attrRelationalQueries, prev.Relational, q.Relational)
	mods = ldapcodec.StoreDiffRequired(mods, attrCombinedDatetimeMatching, prev.DatetimeMatching, q.DatetimeMatching)
	mods = ldapcodec.StoreDiffRequired(mods, attrFuzzySemanticMatching, prev.FuzzySemanticMatching, q.FuzzySemanticMatching)
	mods = ldapcodec.StoreDiffRequired(mods, attrTimezoneQueryAdjustment, prev.TimezoneAdjustment, q.TimezoneAdjustment)
	return mods
}

func storageOptionsDiffs(mods []directory.Modification, prev, s *domain.StorageOptions) []directory.Modification {
	ids := []string{attrStorageConformance, attrDigitalSignatureSupport, attrDataElementCoercion}
	switch {
	case prev == nil && s == nil:
		return mods
	case s == nil:
		for _, id := range ids {
			mods = append(mods, directory.Remove(id))
		}
		return mods
	case prev == nil:
		values := []int{int(s.LevelOfSupport), int(s.DigitalSignatureSupport), int(s.ElementCoercion)}
		for i, id := range ids {
			mods = append(mods, directory.Replace(id, ldapcodec.FormatScalar(values[i])))
		}
		return mods
	}
	mods = ldapcodec.StoreDiffRequired(mods, attrStorageConformance, int(prev.LevelOfSupport), int(s.LevelOfSupport))
	mods = ldapcodec.StoreDiffRequired(mods, attrDigitalSignatureSupport,
		int(prev.DigitalSignatureSupport), int(s.DigitalSignatureSupport))
	mods = ldapcodec.StoreDiffRequired(mods, attrDataElementCoercion, int(prev.ElementCoercion), int(s.ElementCoercion))
	return mods
}

// Web application

func webAppAttributes(wa *domain.WebApplication, deviceDN string) directory.Attributes {
	attrs := objectClasses(ocWebApp)
	attrs.Put(attrWebAppName, wa.Name)
	ldapcodec.StoreNotDefault(attrs, attrDescription, wa.Description, "")
	ldapcodec.StoreNotDefault(attrs, attrWebServicePath, wa.ServicePath, "")
	ldapcodec.StoreNotEmpty(attrs, attrWebServiceClass, wa.ServiceClasses)
	ldapcodec.StoreNotDefault(attrs, attrAETitle, wa.AETitle, "")
	ldapcodec.StoreNotEmpty(attrs, attrApplicationCluster, wa.ApplicationClusters)
	ldapcodec.StoreNotDefault(attrs, attrKeycloakClientID, wa.KeycloakClientID, "")
	ldapcodec.StoreNotEmpty(attrs, attrProperty, wa.PropertyList())
	ldapcodec.StoreNotNull(attrs, attrInstalled, wa.Installed)
	ldapcodec.StoreNotEmpty(attrs, attrNetworkConnectionRef, connectionRefs(wa.Connections, deviceDN))
	return attrs
}

func loadWebApplication(attrs directory.Attributes) *domain.WebApplication {
	return &domain.WebApplication{
		Name:                ldapcodec.String(attrs, attrWebAppName, ""),
		Description:         ldapcodec.String(attrs, attrDescription, ""),
		ServicePath:         ldapcodec.String(attrs, attrWebServicePath, ""),
		ServiceClasses:      ldapcodec.Enums[domain.WebServiceClass](attrs, attrWebServiceClass),
		AETitle:             ldapcodec.String(attrs, attrAETitle, ""),
		ApplicationClusters: ldapcodec.Strings(attrs, attrApplicationCluster),
		KeycloakClientID:    ldapcodec.String(attrs, attrKeycloakClientID, ""),
		Properties:          parseProperties(ldapcodec.Strings(attrs, attrProperty)),
		Installed:           ldapcodec.OptionalBool(attrs, attrInstalled),
	}
}

func webAppDiffs(prev, wa *domain.WebApplication, deviceDN string) []directory.Modification {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrDescription, prev.Description, wa.Description, "")
	mods = ldapcodec.StoreDiff(mods, attrWebServicePath, prev.ServicePath, wa.ServicePath, "")
	mods = ldapcodec.StoreDiffList(mods, attrWebServiceClass, prev.ServiceClasses, wa.ServiceClasses)
	mods = ldapcodec.StoreDiff(mods, attrAETitle, prev.AETitle, wa.AETitle, "")
	mods = ldapcodec.StoreDiffList(mods, attrApplicationCluster, prev.ApplicationClusters, wa.ApplicationClusters)
	mods = ldapcodec.StoreDiff(mods, attrKeycloakClientID, prev.KeycloakClientID, wa.KeycloakClientID, "")
	mods = ldapcodec.StoreDiffList(mods, attrProperty, prev.PropertyList(), wa.PropertyList())
	mods = ldapcodec.StoreDiffNullable(mods, attrInstalled, prev.Installed, wa.Installed)
	mods = ldapcodec.StoreDiffRefs(mods, attrNetworkConnectionRef,
		connectionRefs(prev.Connections, deviceDN), connectionRefs(wa.Connections, deviceDN))
	return mods
}

// parseProperties splits "key=value" pairs; values without '=' map to "".
func parseProperties(values []string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	props := make(map[string]string, len(values))
	for _, v := range values {
		key, value, _ := strings.Cut(v, "=")
		props[key] = value
	}
	return props
}

// Keycloak client

func keycloakClientAttributes(c *domain.KeycloakClient) directory.Attributes {
	attrs := objectClasses(ocKeycloakClient)
	attrs.Put(attrKeycloakClientID, c.ClientID)
	ldapcodec.StoreNotDefault(attrs, attrURI, c.KeycloakServerURL, "")
	ldapcodec.StoreNotDefault(attrs, attrKeycloakRealm, c.Realm, "")
	ldapcodec.StoreNotDefault(attrs, attrKeycloakGrantType, c.GrantType, domain.GrantClientCredentials)
	ldapcodec.StoreNotDefault(attrs, attrKeycloakClientSecret, c.ClientSecret, "")
	ldapcodec.StoreNotDefault(attrs, attrTLSAllowAnyHostname, c.TLSAllowAnyHostname, false)
	ldapcodec.StoreNotDefault(attrs, attrTLSDisableTrustManager, c.TLSDisableTrustManager, false)
	ldapcodec.StoreNotDefault(attrs, attrUserID, c.UserID, "")
	ldapcodec.StoreNotDefault(attrs, attrUserPassword, c.Password, "")
	return attrs
}

func loadKeycloakClient(attrs directory.Attributes) *domain.KeycloakClient {
	return &domain.KeycloakClient{
		ClientID:               ldapcodec.String(attrs, attrKeycloakClientID, ""),
		KeycloakServerURL:      ldapcodec.String(attrs, attrURI, ""),
		Realm:                  ldapcodec.String(attrs, attrKeycloakRealm, ""),
		GrantType:              ldapcodec.Enum(attrs, attrKeycloakGrantType, domain.GrantClientCredentials),
		ClientSecret:           ldapcodec.String(attrs, attrKeycloakClientSecret, ""),
		TLSAllowAnyHostname:    ldapcodec.Bool(attrs, attrTLSAllowAnyHostname, false),
		TLSDisableTrustManager: ldapcodec.Bool(attrs, attrTLSDisableTrustManager, false),
		UserID:                 ldapcodec.String(attrs, attrUserID, ""),
		Password:               ldapcodec.String(attrs, attrUserPassword, ""),
	}
}

func keycloakClientDiffs(prev, c *domain.KeycloakClient) []directory.Modification {
	var mods []directory.Modification
	mods = ldapcodec.StoreDiff(mods, attrURI, prev.KeycloakServerURL, c.KeycloakServerURL, "")
	mods = ldapcodec.StoreDiff(mods, attrKeycloakRealm, prev.Realm, c.Realm, "")
	mods = ldapcodec.StoreDiff(mods, attrKeycloakGrantType, prev.GrantType, c.GrantType, domain.GrantClientCredentials)
	mods = ldapcodec.StoreDiff(mods, attrKeycloakClientSecret, prev.ClientSecret, c.ClientSecret, "")
	mods = ldapcodec.StoreDiff(mods, attrTLSAllowAnyHostname, prev.TLSAllowAnyHostname, c.TLSAllowAnyHostname, false)
	mods = ldapcodec.StoreDiff(mods, attrTLSDisableTrustManager, prev.TLSDisableTrustManager, c.TLSDisableTrustManager, false)
	mods = ldapcodec.StoreDiff(mods, attrUserID, prev.UserID, c.UserID, "")
	mods = ldapcodec.StoreDiff(mods, attrUserPassword, prev.Password, c.Password, "")
	return mods
}
