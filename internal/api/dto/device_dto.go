package dto

import "time"

// DeviceCreateRequest payload for registering a terminal.
type DeviceCreateRequest struct {
	Name string `json:"name"`
}

// DeviceSetActiveRequest payload for toggling a terminal.
type DeviceSetActiveRequest struct {
	Active bool `json:"active"`
}

// DeviceResponse is the admin API view of a device.
type DeviceResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
