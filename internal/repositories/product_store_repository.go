package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"gearnix/internal/docstore"
	"gearnix/internal/models"

	"github.com/google/uuid"
)

// ProductCollection is the document collection holding product records.
const ProductCollection = "products"

// StoreProductRepository is a docstore-backed implementation of
// ProductRepository.
type StoreProductRepository struct {
	store docstore.Store
}

// NewStoreProductRepository creates a new instance of StoreProductRepository.
func NewStoreProductRepository(store docstore.Store) *StoreProductRepository {
	return &StoreProductRepository{
		store: store,
	}
}

// GetAll retrieves all products from the store.
func (r *StoreProductRepository) GetAll() ([]models.Product, error) {
	docs, err := r.store.GetAll(ProductCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		var product models.Product
		if err := json.Unmarshal(doc, &product); err != nil {
			return nil, fmt.Errorf("failed to decode product document: %w", err)
		}
		products = append(products, product)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the store.
func (r *StoreProductRepository) GetByID(id string) (*models.Product, error) {
	doc, err := r.store.Get(ProductCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}

	var product models.Product
	if err := json.Unmarshal(doc, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product document %s: %w", id, err)
	}
	return &product, nil
}

// Create generates an id for the product and writes the full document.
func (r *StoreProductRepository) Create(product *models.Product) error {
	if product.ProductID == "" {
		product.ProductID = uuid.New().String()
	}
	if err := r.store.Put(ProductCollection, product.ProductID, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update merges only the supplied fields into the stored document at id.
func (r *StoreProductRepository) Update(id string, fields map[string]any) error {
	if err := r.store.Patch(ProductCollection, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("product with ID %s not found for update: %w", id, docstore.ErrNotFound)
		}
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return nil
}

// Delete removes the product document at id. Deleting an id that does not
// exist is a no-op success, matching the store's observed semantics.
func (r *StoreProductRepository) Delete(id string) error {
	if err := r.store.Delete(ProductCollection, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}
