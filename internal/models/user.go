package models

// User represents a user profile document in the "users" collection.
// UserID is assigned by the identity provider at registration. The profile
// carries no credentials; passwords live only in the identity provider's
// credential store.
type User struct {
	UserID    string `json:"userId" validate:"omitempty"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
