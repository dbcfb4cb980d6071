package repositories

import (
	"gearnix/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Create assigns a server-generated id to the model before writing the full
// document. Update is a merge: only the supplied fields change, everything
// else in the stored document is untouched. GetByID reports a missing id
// with docstore.ErrNotFound.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(id string, fields map[string]any) error
	Delete(id string) error
}
