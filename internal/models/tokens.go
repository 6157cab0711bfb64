package models

// TokenPair is the access/refresh credential pair issued by the auth service.
// The access token is a short-lived JWT; the refresh token is an opaque
// secret. The refresh token may be empty when the provider chooses not to
// rotate it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
