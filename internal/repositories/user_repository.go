package repositories

import "gearnix/internal/models"

// UserRepository defines the interface for user profile data access.
// The profile record is written once at registration, keyed by the id the
// identity provider assigned.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
}
