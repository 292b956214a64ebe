package pricetrack

import (
	"context"
	"slices"
)

// DefaultCategory is assigned when categorization fails.
const DefaultCategory = "Extra"

// Categories lists the categories an item may be assigned.
var Categories = []string{
	"Clothing",
	"Shoes",
	"Bags",
	"Accessories",
	"Jewelry",
	"Beauty",
	"Home",
	"Electronics",
	DefaultCategory,
}

// Category is the result of categorizing a product.
type Category struct {
	Name        string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Categorizer assigns a category to a product.
type Categorizer interface {
	// Categorize may fail; callers fall back to DefaultCategory.
	// brand and url may be empty.
	Categorize(ctx context.Context, title, brand, url string) (*Category, error)
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	return slices.Contains(Categories, name)
}

// CategorizeOrDefault categorizes the product and returns DefaultCategory
// with the error when c is nil, fails, or returns an unknown category.
func CategorizeOrDefault(ctx context.Context, c Categorizer, title, brand, url string) (Category, error) {
	if c == nil {
		return Category{Name: DefaultCategory}, nil
	}
	cat, err := c.Categorize(ctx, title, brand, url)
	if err != nil {
		return Category{Name: DefaultCategory}, err
	}
	if cat == nil || !IsCategory(cat.Name) {
		return Category{Name: DefaultCategory}, Errorf(EINVALID, "unknown category")
	}
	return *cat, nil
}
