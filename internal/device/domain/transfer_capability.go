package domain

// TransferRole is the role an AE plays for a SOP class.
type TransferRole string

// Transfer roles.
const (
	RoleSCU TransferRole = "SCU"
	RoleSCP TransferRole = "SCP"
)

// LevelOfSupport is the storage conformance level (ordinal encoded).
type LevelOfSupport int

// Levels of storage support.
const (
	LevelOfSupport0 LevelOfSupport = iota
	LevelOfSupport1
	LevelOfSupport2
	LevelOfSupportUnspecified
)

// DigitalSignatureSupport is the signature support level (ordinal encoded).
type DigitalSignatureSupport int

// Levels of digital signature support.
const (
	DigitalSignatureUnspecified DigitalSignatureSupport = iota
	DigitalSignatureLevel1
	DigitalSignatureLevel2
	DigitalSignatureLevel3
)

// ElementCoercion reports whether stored data elements may be coerced (ordinal encoded).
type ElementCoercion int

// Element coercion settings.
const (
	ElementCoercionNo ElementCoercion = iota
	ElementCoercionYes
	ElementCoercionUnspecified
)

// QueryOptions are the extended negotiation flags of query SOP classes.
type QueryOptions struct {
	Relational            bool
	DatetimeMatching      bool
	FuzzySemanticMatching bool
	TimezoneAdjustment    bool
}

// StorageOptions are the extended negotiation settings of storage SOP classes.
type StorageOptions struct {
	LevelOfSupport          LevelOfSupport
	DigitalSignatureSupport DigitalSignatureSupport
	ElementCoercion         ElementCoercion
}

// TransferCapability declares the transfer syntaxes an AE supports for a SOP class in a role.
type TransferCapability struct {
	// CommonName identifies the capability within its AE. When empty the
	// capability is identified by SOPClass and Role.
	CommonName string
	SOPClass   string
	Role       TransferRole
	// TransferSyntaxes is ordered by preference.
	TransferSyntaxes []string
	QueryOptions     *QueryOptions
	StorageOptions   *StorageOptions
}

// NewTransferCapability returns a capability for sopClass in role.
func NewTransferCapability(commonName, sopClass string, role TransferRole, transferSyntaxes ...string) *TransferCapability {
	return &TransferCapability{
		CommonName:       commonName,
		SOPClass:         sopClass,
		Role:             role,
		TransferSyntaxes: transferSyntaxes,
	}
}
