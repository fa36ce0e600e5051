// Package models defines the user profile documents kept alongside invite
// data.
package models

import "time"

// Profile is the per-user document bootstrapped at signup and read back by
// the profile endpoint.
type Profile struct {
	Subject     string    `json:"subject"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    *string   `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// SignupEvent is the identity-provider message that triggers a profile
// bootstrap. CreatedAt carries the provider's account creation time when the
// provider reports one.
type SignupEvent struct {
	Subject     string     `json:"subject"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	PhotoURL    string     `json:"photoURL,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}
