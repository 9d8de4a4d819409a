package models

// TokenPair is the credential pair issued by the backend on login, register and refresh.
// Refresh is empty when the backend does not rotate refresh tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	TokenPair
	User *User `json:"user,omitempty"`
}
