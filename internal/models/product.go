package models

// Product represents a product document in the "products" collection.
// ProductID is server-generated and immutable after creation; ImageURL is
// only empty transiently, before the first successful upload completes.
type Product struct {
	ProductID    string  `json:"productId" validate:"omitempty,uuid"`
	ProductName  string  `json:"productName" validate:"required,max=100"`
	ProductPrice float64 `json:"productPrice" validate:"gte=0"`
	ProductDesc  string  `json:"productDesc" validate:"required,max=500"`
	ImageURL     string  `json:"imageUrl" validate:"omitempty,url"`
}
