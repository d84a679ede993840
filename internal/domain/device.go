package domain

import "time"

// Device models a registered biometric terminal. The Code is the short
// identifier the terminal embeds in its push payloads (the SN query
// parameter for ADMS pushes, deviceKey for JSON pushes); it is the sole
// credential a terminal presents.
type Device struct {
	Code      string
	GymID     string
	Name      string
	Active    bool
	CreatedAt time.Time
}
