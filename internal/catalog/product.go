// Package catalog loads the static product catalog and exposes read-only views over it.
package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// productNamespace scopes name-based product identifiers to this storefront.
var productNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://stylespot.example/products"))

// Product is an immutable catalog entry.
type Product struct {
	ID            string
	Title         string
	Description   string
	Brand         string
	Category      string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Rating        float64
	Cloth         string
	Image         string
}

// record mirrors one entry of the catalog resource as published.
type record struct {
	Title         string  `json:"title" yaml:"title"`
	Description   string  `json:"description" yaml:"description"`
	Brand         string  `json:"brand" yaml:"brand"`
	Category      string  `json:"category" yaml:"category"`
	Price         float64 `json:"price" yaml:"price"`
	OriginalPrice float64 `json:"originalPrice" yaml:"originalPrice"`
	Rating        float64 `json:"rating" yaml:"rating"`
	Cloth         string  `json:"cloth" yaml:"cloth"`
	Image         string  `json:"image" yaml:"image"`
}

// ProductID derives the stable identifier assigned to a product title at ingestion.
func ProductID(title string) string {
	return uuid.NewSHA1(productNamespace, []byte(strings.TrimSpace(title))).String()
}

func (r record) product() Product {
	title := strings.TrimSpace(r.Title)
	return Product{
		ID:            ProductID(title),
		Title:         title,
		Description:   strings.TrimSpace(r.Description),
		Brand:         strings.TrimSpace(r.Brand),
		Category:      strings.TrimSpace(r.Category),
		Price:         decimal.NewFromFloat(r.Price),
		OriginalPrice: decimal.NewFromFloat(r.OriginalPrice),
		Rating:        r.Rating,
		Cloth:         strings.TrimSpace(r.Cloth),
		Image:         strings.TrimSpace(r.Image),
	}
}
