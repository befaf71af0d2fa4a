package domain

// NotListening is the port value of a connection that only initiates associations.
const NotListening = -1

// DefaultSendPDULength is the maximum PDU length sent when none is configured.
const DefaultSendPDULength = 16378

// Protocol is the protocol spoken on a connection.
type Protocol string

// Protocols supported on a network connection.
const (
	ProtocolDICOM     Protocol = "DICOM"
	ProtocolHL7       Protocol = "HL7"
	ProtocolHL7MLLP2  Protocol = "HL7_MLLP2"
	ProtocolHTTP      Protocol = "HTTP"
	ProtocolSyslogTLS Protocol = "SYSLOG_TLS"
	ProtocolSyslogUDP Protocol = "SYSLOG_UDP"
)

// Connection is a network endpoint of a device.
type Connection struct {
	// CommonName identifies the connection within its device. When empty the
	// connection is identified by Hostname and, if listening, Port.
	CommonName           string
	Hostname             string
	Port                 int
	Protocol             Protocol
	TLSCipherSuites      []string
	TLSProtocols         []string
	TLSNeedClientAuth    bool
	Installed            *bool
	BindAddress          string
	ConnectTimeout       int
	IdleTimeout          int
	SendPDULength        int
	BlacklistedHostnames []string
	// ExternalDN is set on connections resolved from another device's subtree.
	ExternalDN string
}

// NewConnection returns a connection with default settings.
func NewConnection(commonName, hostname string, port int) *Connection {
	return &Connection{
		CommonName:        commonName,
		Hostname:          hostname,
		Port:              port,
		Protocol:          ProtocolDICOM,
		TLSNeedClientAuth: true,
		SendPDULength:     DefaultSendPDULength,
	}
}

// IsListening reports whether the connection accepts inbound associations.
func (c *Connection) IsListening() bool {
	return c.Port > 0
}

// IsTLS reports whether the connection is secured with TLS.
func (c *Connection) IsTLS() bool {
	return len(c.TLSCipherSuites) > 0
}
