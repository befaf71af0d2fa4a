package domain

// ApplicationEntity is a DICOM application entity hosted by a device.
type ApplicationEntity struct {
	// AETitle identifies the AE within its device and, unless it is the
	// wildcard, across all devices of the configuration.
	AETitle                  string
	Description              string
	AssociationInitiator     bool
	AssociationAcceptor      bool
	ApplicationClusters      []string
	PreferredCalledAETitles  []string
	PreferredCallingAETitles []string
	AcceptedCallingAETitles  []string
	SupportedCharacterSets   []string
	Installed                *bool
	// Connections references connections of the owning device.
	Connections          []*Connection
	TransferCapabilities []*TransferCapability
}

// NewApplicationEntity returns an AE that initiates and accepts associations.
func NewApplicationEntity(title string) *ApplicationEntity {
	return &ApplicationEntity{
		AETitle:              title,
		AssociationInitiator: true,
		AssociationAcceptor:  true,
	}
}

// IsWildcard reports whether the AE title matches any calling AE.
func (ae *ApplicationEntity) IsWildcard() bool {
	return ae.AETitle == Wildcard
}

// AddConnection references conn from the AE.
func (ae *ApplicationEntity) AddConnection(conn *Connection) {
	ae.Connections = append(ae.Connections, conn)
}

// AddTransferCapability appends tc to the AE.
func (ae *ApplicationEntity) AddTransferCapability(tc *TransferCapability) {
	ae.TransferCapabilities = append(ae.TransferCapabilities, tc)
}

// TransferCapability returns the capability for sopClass in role.
func (ae *ApplicationEntity) TransferCapability(sopClass string, role TransferRole) (*TransferCapability, bool) {
	for _, tc := range ae.TransferCapabilities {
		if tc.SOPClass == sopClass && tc.Role == role {
			return tc, true
		}
	}
	return nil, false
}
