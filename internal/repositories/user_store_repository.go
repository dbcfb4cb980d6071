package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"gearnix/internal/docstore"
	"gearnix/internal/models"
)

// UserCollection is the document collection holding user profile records.
const UserCollection = "users"

// StoreUserRepository is a docstore-backed implementation of UserRepository.
type StoreUserRepository struct {
	store docstore.Store
}

// NewStoreUserRepository creates a new instance of StoreUserRepository.
func NewStoreUserRepository(store docstore.Store) *StoreUserRepository {
	return &StoreUserRepository{
		store: store,
	}
}

// Create writes the user profile document keyed by the provider-assigned id.
func (r *StoreUserRepository) Create(user *models.User) error {
	if user.UserID == "" {
		return fmt.Errorf("cannot create user profile without a user ID")
	}
	if err := r.store.Put(UserCollection, user.UserID, user); err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

// GetByID retrieves a user profile by its ID from the store.
func (r *StoreUserRepository) GetByID(id string) (*models.User, error) {
	doc, err := r.store.Get(UserCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}

	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user document %s: %w", id, err)
	}
	return &user, nil
}
