// Package repository implements persistence of device configurations in an
// LDAP directory tree.
//
// Layout below the configuration root:
//
//	cn=<config>,<base>
//	├── cn=Devices
//	│   └── dicomDeviceName=<name>
//	│       ├── cn=<connection> | dicomHostname=<host>+dicomPort=<port>
//	│       ├── dicomAETitle=<title>
//	│       │   └── cn=<tc> | dicomSOPClass=<uid>+dicomTransferRole=<role>
//	│       ├── dcmWebAppName=<name>
//	│       └── dcmKeycloakClientID=<id>
//	├── cn=Unique AE Titles Registry
//	│   └── dicomAETitle=<title>
//	└── cn=Unique Web Application Names Registry
//	    └── dcmWebAppName=<name>
package repository

// Object classes.
const (
	ocConfigurationRoot             = "dicomConfigurationRoot"
	ocDevicesRoot                   = "dicomDevicesRoot"
	ocUniqueAETitlesRegistryRoot    = "dicomUniqueAETitlesRegistryRoot"
	ocUniqueAETitle                 = "dicomUniqueAETitle"
	ocUniqueWebAppNamesRegistryRoot = "dcmUniqueWebAppNamesRegistryRoot"
	ocUniqueWebAppName              = "dcmUniqueWebAppName"
	ocDevice                        = "dicomDevice"
	ocDcmDevice                     = "dcmDevice"
	ocNetworkConnection             = "dicomNetworkConnection"
	ocDcmNetworkConnection          = "dcmNetworkConnection"
	ocNetworkAE                     = "dicomNetworkAE"
	ocDcmNetworkAE                  = "dcmNetworkAE"
	ocTransferCapability            = "dicomTransferCapability"
	ocDcmTransferCapability         = "dcmTransferCapability"
	ocWebApp                        = "dcmWebApp"
	ocKeycloakClient                = "dcmKeycloakClient"
	ocPKIUser                       = "pkiUser"
)

// Attribute types.
const (
	attrObjectClass = "objectClass"
	attrCN          = "cn"

	attrDeviceName                      = "dicomDeviceName"
	attrDeviceUID                       = "dicomDeviceUID"
	attrDescription                     = "dicomDescription"
	attrManufacturer                    = "dicomManufacturer"
	attrManufacturerModelName           = "dicomManufacturerModelName"
	attrSoftwareVersion                 = "dicomSoftwareVersion"
	attrStationName                     = "dicomStationName"
	attrDeviceSerialNumber              = "dicomDeviceSerialNumber"
	attrPrimaryDeviceType               = "dicomPrimaryDeviceType"
	attrInstitutionName                 = "dicomInstitutionName"
	attrInstitutionDepartmentName       = "dicomInstitutionDepartmentName"
	attrIssuerOfPatientID               = "dicomIssuerOfPatientID"
	attrInstalled                       = "dicomInstalled"
	attrTimeZoneOfDevice                = "dcmTimeZoneOfDevice"
	attrLimitOpenAssociations           = "dcmLimitOpenAssociations"
	attrTrustStoreURL                   = "dcmTrustStoreURL"
	attrTrustStoreType                  = "dcmTrustStoreType"
	attrKeyStoreURL                     = "dcmKeyStoreURL"
	attrKeyStoreType                    = "dcmKeyStoreType"
	attrKeyStorePin                     = "dcmKeyStorePin"
	attrRoleSelectionNegotiationLenient = "dcmRoleSelectionNegotiationLenient"
	attrAuthorizedNodeCertificateRef    = "dicomAuthorizedNodeCertificateReference"
	attrThisNodeCertificateRef          = "dicomThisNodeCertificateReference"
	attrVendorData                      = "dicomVendorData"
	attrLastModified                    = "dcmLastModified"

	attrHostname            = "dicomHostname"
	attrPort                = "dicomPort"
	attrProtocol            = "dcmProtocol"
	attrTLSCipherSuite      = "dicomTLSCipherSuite"
	attrTLSProtocol         = "dcmTLSProtocol"
	attrTLSNeedClientAuth   = "dcmTLSNeedClientAuth"
	attrBindAddress         = "dcmBindAddress"
	attrConnectTimeout      = "dcmTCPConnectTimeout"
	attrIdleTimeout         = "dcmIdleTimeout"
	attrSendPDULength       = "dcmSendPDULength"
	attrBlacklistedHostname = "dcmBlacklistedHostname"

	attrAETitle                 = "dicomAETitle"
	attrAssociationInitiator    = "dicomAssociationInitiator"
	attrAssociationAcceptor     = "dicomAssociationAcceptor"
	attrApplicationCluster      = "dicomApplicationCluster"
	attrPreferredCalledAETitle  = "dicomPreferredCalledAETitle"
	attrPreferredCallingAETitle = "dicomPreferredCallingAETitle"
	attrAcceptedCallingAETitle  = "dcmAcceptedCallingAETitle"
	attrSupportedCharacterSet   = "dicomSupportedCharacterSet"
	attrNetworkConnectionRef    = "dicomNetworkConnectionReference"

	attrSOPClass                 = "dicomSOPClass"
	attrTransferRole             = "dicomTransferRole"
	attrTransferSyntax           = "dicomTransferSyntax"
	attrRelationalQueries        = "dcmRelationalQueries"
	attrCombinedDatetimeMatching = "dcmCombinedDatetimeMatching"
	attrFuzzySemanticMatching    = "dcmFuzzySemanticMatching"
	attrTimezoneQueryAdjustment  = "dcmTimezoneQueryAdjustment"
	attrStorageConformance       = "dcmStorageConformance"
	attrDigitalSignatureSupport  = "dcmDigitalSignatureSupport"
	attrDataElementCoercion      = "dcmDataElementCoercion"

	attrWebAppName       = "dcmWebAppName"
	attrWebServicePath   = "dcmWebServicePath"
	attrWebServiceClass  = "dcmWebServiceClass"
	attrKeycloakClientID = "dcmKeycloakClientID"
	attrProperty         = "dcmProperty"

	attrURI                    = "dcmURI"
	attrKeycloakRealm          = "dcmKeycloakRealm"
	attrKeycloakGrantType      = "dcmKeycloakGrantType"
	attrKeycloakClientSecret   = "dcmKeycloakClientSecret"
	attrTLSAllowAnyHostname    = "dcmTLSAllowAnyHostname"
	attrTLSDisableTrustManager = "dcmTLSDisableTrustManager"
	attrUserID                 = "dcmUserID"
	attrUserPassword           = "dcmUserPassword"

	attrUserCertificate = "userCertificate;binary"
)

// Fixed container entries below the configuration root.
const (
	devicesCN             = "Devices"
	aeTitlesRegistryCN    = "Unique AE Titles Registry"
	webAppNamesRegistryCN = "Unique Web Application Names Registry"
)

func filterObjectClass(oc string) string {
	return "(" + attrObjectClass + "=" + oc + ")"
}
