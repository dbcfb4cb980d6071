package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"gearnix/internal/docstore"
	"gearnix/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products. Every response carries
// the tri-form result body: success flag, message, optional data payload.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; mutations
// carry the auth middleware on each route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", h.HandleGetProductByID)

	products.Post("/", auth, h.HandleCreateProduct)
	products.Patch("/:id", auth, h.HandleUpdateProduct)
	products.Delete("/:id", auth, h.HandleDeleteProduct)
}

// productForm is the multipart form body shared by create and update.
type productForm struct {
	Name  string `form:"productName" validate:"required"`
	Price string `form:"productPrice" validate:"required"`
	Desc  string `form:"productDesc" validate:"required"`
}

// imageFromForm opens the optional uploaded image file. Returns nil when the
// form carries no image part.
func imageFromForm(c *fiber.Ctx) (*services.ImageSource, multipart.File, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	return &services.ImageSource{Stream: file, Name: fileHeader.Filename}, file, nil
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Products fetched",
		"data":    products,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product fetched",
		"data":    product,
	})
}

// HandleCreateProduct creates a new product from a multipart form carrying
// the text fields and the image file.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	form := productForm{
		Name:  c.FormValue("productName"),
		Price: c.FormValue("productPrice"),
		Desc:  c.FormValue("productDesc"),
	}
	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please fill all fields and select an image",
		})
	}

	image, file, err := imageFromForm(c)
	if err != nil {
		log.Printf("Error reading image from create request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Could not read uploaded image",
		})
	}
	if file != nil {
		defer file.Close()
	}

	product, err := h.service.AddProduct(services.AddProductInput{
		Name:  form.Name,
		Price: form.Price,
		Desc:  form.Desc,
		Image: image,
	})
	if err != nil {
		return h.writeFlowError(c, "Could not add product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product added",
		"data":    product,
	})
}

// HandleUpdateProduct merges changed fields into an existing product. The
// image file is optional; without one the submitted imageUrl is reused.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	form := productForm{
		Name:  c.FormValue("productName"),
		Price: c.FormValue("productPrice"),
		Desc:  c.FormValue("productDesc"),
	}
	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please fill all fields",
		})
	}

	image, file, err := imageFromForm(c)
	if err != nil {
		log.Printf("Error reading image from update request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Could not read uploaded image",
		})
	}
	if file != nil {
		defer file.Close()
	}

	err = h.service.UpdateProduct(productID, services.UpdateProductInput{
		Name:             form.Name,
		Price:            form.Price,
		Desc:             form.Desc,
		Image:            image,
		ExistingImageURL: c.FormValue("imageUrl"),
	})
	if err != nil {
		return h.writeFlowError(c, "Could not update product", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated",
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not delete product",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted",
	})
}

// writeFlowError maps add/update flow errors onto HTTP statuses.
func (h *ProductHandler) writeFlowError(c *fiber.Ctx, fallback string, err error) error {
	log.Printf("%s: %v", fallback, err)
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUpload):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Failed to upload image",
		})
	case errors.Is(err, docstore.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Product not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": fallback,
		})
	}
}
