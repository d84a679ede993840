package domain

// SMSSettings holds a gym's SMS provider credentials and notification
// toggles. Credentials are opaque to this service; they are handed to the
// configured sender as-is.
type SMSSettings struct {
	GymID           string
	AccountSID      string
	AuthToken       string
	PhoneNumber     string
	EnableCheckin   bool
	CheckinTemplate string
}

// Configured reports whether the settings are complete enough to send.
func (s SMSSettings) Configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.PhoneNumber != ""
}
