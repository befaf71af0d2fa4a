package domain

import (
	"maps"
	"slices"
)

// WebServiceClass is a class of service offered by a web application.
type WebServiceClass string

// Web service classes.
const (
	ServiceQIDORS         WebServiceClass = "QIDO_RS"
	ServiceSTOWRS         WebServiceClass = "STOW_RS"
	ServiceWADORS         WebServiceClass = "WADO_RS"
	ServiceWADOURI        WebServiceClass = "WADO_URI"
	ServiceUPSRS          WebServiceClass = "UPS_RS"
	ServiceMWLRS          WebServiceClass = "MWL_RS"
	ServiceDCM4CHEEArc    WebServiceClass = "DCM4CHEE_ARC"
	ServiceDCM4CHEEArcAET WebServiceClass = "DCM4CHEE_ARC_AET"
	ServicePAM            WebServiceClass = "PAM"
	ServiceReject         WebServiceClass = "REJECT"
	ServiceMove           WebServiceClass = "MOVE"
	ServiceMoveMatching   WebServiceClass = "MOVE_MATCHING"
	ServiceElasticsearch  WebServiceClass = "ELASTICSEARCH"
	ServiceXDSRS          WebServiceClass = "XDS_RS"
	ServiceAgfaBlob       WebServiceClass = "AGFA_BLOB"
	ServiceQIDOCount      WebServiceClass = "QIDO_COUNT"
	ServiceFHIR           WebServiceClass = "FHIR"
)

// WebServiceClasses lists every known service class.
var WebServiceClasses = []WebServiceClass{
	ServiceQIDORS, ServiceSTOWRS, ServiceWADORS, ServiceWADOURI, ServiceUPSRS, ServiceMWLRS,
	ServiceDCM4CHEEArc, ServiceDCM4CHEEArcAET, ServicePAM, ServiceReject, ServiceMove,
	ServiceMoveMatching, ServiceElasticsearch, ServiceXDSRS, ServiceAgfaBlob, ServiceQIDOCount,
	ServiceFHIR,
}

// WebApplication is an HTTP service published by a device.
type WebApplication struct {
	// Name identifies the web application within its device and, unless it is
	// the wildcard, across all devices of the configuration.
	Name                string
	Description         string
	ServicePath         string
	ServiceClasses      []WebServiceClass
	AETitle             string
	ApplicationClusters []string
	// KeycloakClientID references a KeycloakClient of the owning device.
	KeycloakClientID string
	Properties       map[string]string
	Installed        *bool
	// Connections references connections of the owning device.
	Connections []*Connection
}

// NewWebApplication returns a web application served at path.
func NewWebApplication(name, path string, classes ...WebServiceClass) *WebApplication {
	return &WebApplication{Name: name, ServicePath: path, ServiceClasses: classes}
}

// IsWildcard reports whether the name is the wildcard.
func (wa *WebApplication) IsWildcard() bool {
	return wa.Name == Wildcard
}

// AddConnection references conn from the web application.
func (wa *WebApplication) AddConnection(conn *Connection) {
	wa.Connections = append(wa.Connections, conn)
}

// PropertyList returns the properties as sorted "key=value" strings.
func (wa *WebApplication) PropertyList() []string {
	if len(wa.Properties) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(wa.Properties))
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "=" + wa.Properties[k]
	}
	return out
}
