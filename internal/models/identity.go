package models

// Identity is the principal resolved from a bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
