package models

// User is the profile snapshot delivered by the auth service. It is derived
// from the most recent successful profile fetch and never mutated locally.
type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	AvatarURL     string   `json:"avatarUrl"`
	Roles         []string `json:"roles"`
	Permissions   []string `json:"permissions"`
	EmailVerified bool     `json:"emailVerified"`
}
