package domain

// GrantType is the OAuth2 grant a credential client uses.
type GrantType string

// Grant types.
const (
	GrantClientCredentials GrantType = "client_credentials"
	GrantPassword          GrantType = "password"
)

// KeycloakClient holds the credentials a device uses to obtain access tokens.
type KeycloakClient struct {
	// ClientID identifies the client within its device.
	ClientID               string
	KeycloakServerURL      string
	Realm                  string
	GrantType              GrantType
	ClientSecret           string
	UserID                 string
	Password               string
	TLSAllowAnyHostname    bool
	TLSDisableTrustManager bool
}

// NewKeycloakClient returns a client credentials client.
func NewKeycloakClient(clientID, serverURL, realm string) *KeycloakClient {
	return &KeycloakClient{
		ClientID:          clientID,
		KeycloakServerURL: serverURL,
		Realm:             realm,
		GrantType:         GrantClientCredentials,
	}
}
