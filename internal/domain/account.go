package domain

import "time"

// Account is an administrator login for the REST API. Accounts are scoped
// to one gym; the gym ID carried in an account's token bounds every admin
// operation.
type Account struct {
	ID           string
	GymID        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
