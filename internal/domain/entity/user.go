package entity

import "time"

// User is a Coldsweat account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	APIKey       string
	IsEnabled    bool
	CreatedOn    time.Time
}

const (
	DefaultUsername = "coldsweat"
	DefaultPassword = "coldsweat"
)
