package models

// Principal is the authenticated identity asserted by the external
// identity provider for the current request. ExternalID is the provider's
// stable subject identifier; everything else is optional profile data.
type Principal struct {
	ExternalID string
	Emails     []string
	FirstName  string
	LastName   string
}
