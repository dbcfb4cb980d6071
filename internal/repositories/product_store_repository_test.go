package repositories_test

import (
	"testing"

	"gearnix/internal/docstore"
	"gearnix/internal/models"
	"gearnix/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductRepo() *repositories.StoreProductRepository {
	return repositories.NewStoreProductRepository(docstore.NewMemoryStore())
}

func TestProductRepositoryCreateAssignsID(t *testing.T) {
	repo := newProductRepo()

	product := &models.Product{
		ProductName:  "RGB Keyboard",
		ProductPrice: 2999,
		ProductDesc:  "Per-key lighting",
		ImageURL:     "https://cdn.example.com/img/keyboard",
	}
	require.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ProductID)

	got, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, product, got)
}

func TestProductRepositoryGetByIDMissing(t *testing.T) {
	repo := newProductRepo()

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestProductRepositoryUpdateMergesOnlySuppliedFields(t *testing.T) {
	repo := newProductRepo()

	product := &models.Product{
		ProductName:  "Mouse",
		ProductPrice: 25,
		ProductDesc:  "Wireless",
		ImageURL:     "https://cdn.example.com/img/mouse",
	}
	require.NoError(t, repo.Create(product))

	err := repo.Update(product.ProductID, map[string]any{"productPrice": 19.5})
	require.NoError(t, err)

	got, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 19.5, got.ProductPrice)
	assert.Equal(t, "Mouse", got.ProductName)
	assert.Equal(t, "Wireless", got.ProductDesc)
	assert.Equal(t, "https://cdn.example.com/img/mouse", got.ImageURL)
}

func TestProductRepositoryUpdateMissing(t *testing.T) {
	repo := newProductRepo()

	err := repo.Update("missing", map[string]any{"productPrice": 1.0})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestProductRepositoryDelete(t *testing.T) {
	repo := newProductRepo()

	product := &models.Product{ProductName: "Mouse", ProductDesc: "Wireless"}
	require.NoError(t, repo.Create(product))
	require.NoError(t, repo.Delete(product.ProductID))

	_, err := repo.GetByID(product.ProductID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// Deleting an id that no longer exists still succeeds.
	assert.NoError(t, repo.Delete(product.ProductID))
}

func TestProductRepositoryGetAll(t *testing.T) {
	repo := newProductRepo()

	names := []string{"Keyboard", "Mouse", "Headset"}
	for _, name := range names {
		require.NoError(t, repo.Create(&models.Product{ProductName: name, ProductDesc: "x"}))
	}

	products, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, products, 3)

	got := make(map[string]bool)
	for _, p := range products {
		got[p.ProductName] = true
		assert.NotEmpty(t, p.ProductID)
	}
	for _, name := range names {
		assert.True(t, got[name])
	}
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := repositories.NewStoreUserRepository(docstore.NewMemoryStore())

	user := &models.User{
		UserID:    "user-1",
		Email:     "gamer@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	require.NoError(t, repo.Create(user))

	got, err := repo.GetByID("user-1")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserRepositoryCreateWithoutID(t *testing.T) {
	repo := repositories.NewStoreUserRepository(docstore.NewMemoryStore())

	err := repo.Create(&models.User{Email: "gamer@example.com"})
	assert.Error(t, err)
}
