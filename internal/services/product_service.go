package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"gearnix/internal/models"
	"gearnix/internal/repositories"
	"gearnix/internal/storage"
)

var (
	// ErrValidation indicates a required field was missing or blank. It is
	// raised before any remote call is made.
	ErrValidation = errors.New("validation failed")

	// ErrUpload indicates the media gateway failed to produce a URL.
	ErrUpload = errors.New("image upload failed")
)

// ImageSource is a pending image upload: the binary stream plus the
// client-supplied display name the storage key is derived from.
type ImageSource struct {
	Stream io.Reader
	Name   string
}

// AddProductInput carries the fields of the add-product flow. Price arrives
// as the raw form value and is coerced to a number with a zero fallback.
type AddProductInput struct {
	Name  string
	Price string
	Desc  string
	Image *ImageSource
}

// UpdateProductInput carries the changed fields of the update-product flow.
// Image is optional; when absent, ExistingImageURL (already known to the
// caller) is written back unchanged.
type UpdateProductInput struct {
	Name             string
	Price            string
	Desc             string
	Image            *ImageSource
	ExistingImageURL string
}

// ProductService composes the media upload gateway and the product
// repository into the add/update business flows.
type ProductService struct {
	repo    repositories.ProductRepository
	gateway *storage.Gateway
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, gateway *storage.Gateway) *ProductService {
	return &ProductService{
		repo:    repo,
		gateway: gateway,
	}
}

// coercePrice parses a raw price value, falling back to 0 when it is absent
// or unparseable.
func coercePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return price
}

// AddProduct uploads the image and, only after a URL is produced, writes the
// product record. A failed upload aborts the flow with no record written. If
// the record write fails after a successful upload, the uploaded object is
// removed again so it does not linger orphaned.
func (s *ProductService) AddProduct(in AddProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Price) == "" ||
		strings.TrimSpace(in.Desc) == "" {
		return nil, fmt.Errorf("%w: product name, price and description are required", ErrValidation)
	}
	if in.Image == nil || in.Image.Stream == nil {
		return nil, fmt.Errorf("%w: a product image is required", ErrValidation)
	}

	res := s.gateway.UploadAndWait(in.Image.Stream, in.Image.Name)
	if res.Err != nil {
		log.Printf("Image upload failed for new product %q: %v", in.Name, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, res.Err)
	}

	product := &models.Product{
		ProductName:  in.Name,
		ProductPrice: coercePrice(in.Price),
		ProductDesc:  in.Desc,
		ImageURL:     res.URL,
	}
	if err := s.repo.Create(product); err != nil {
		// Compensate: the image is already in object storage but no record
		// points at it, so remove it again. Best effort only.
		if rmErr := s.gateway.Remove(res.Key); rmErr != nil {
			log.Printf("Warning: failed to remove orphaned upload %s: %v", res.Key, rmErr)
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct merges the supplied fields into the product at id. A new
// image, when present, is uploaded first and its URL joins the field set;
// otherwise the existing URL is carried forward.
func (s *ProductService) UpdateProduct(id string, in UpdateProductInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Price) == "" ||
		strings.TrimSpace(in.Desc) == "" {
		return fmt.Errorf("%w: product name, price and description are required", ErrValidation)
	}

	imageURL := in.ExistingImageURL
	if in.Image != nil && in.Image.Stream != nil {
		res := s.gateway.UploadAndWait(in.Image.Stream, in.Image.Name)
		if res.Err != nil {
			log.Printf("Image upload failed for product %s: %v", id, res.Err)
			return fmt.Errorf("%w: %v", ErrUpload, res.Err)
		}
		imageURL = res.URL
	}

	fields := map[string]any{
		"productId":    id,
		"productName":  in.Name,
		"productPrice": coercePrice(in.Price),
		"productDesc":  in.Desc,
		"imageUrl":     imageURL,
	}
	return s.repo.Update(id, fields)
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
