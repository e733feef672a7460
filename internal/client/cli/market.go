package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// Products lists the marketplace.
func (a *App) Products(ctx context.Context) error {
	items, err := a.products.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No products yet.")
		return nil
	}
	for _, p := range items {
		printlnFn(fmt.Sprintf("%s  %-30s %10s  %s", p.ID, p.Name, price(p), p.Category))
	}
	return nil
}

// Product prints the detail view of one listing.
func (a *App) Product(ctx context.Context, id string) error {
	p, err := a.products.Get(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(p.Name)
	printlnFn("Price:   ", price(*p))
	printlnFn("Category:", p.Category)
	printlnFn("In stock:", p.StockQuantity)
	if s := sellerName(p.Seller); s != "" {
		printlnFn("Seller:  ", s)
	}
	if p.Description != "" {
		printlnFn()
		printlnFn(p.Description)
	}
	for _, img := range p.ProductImages {
		printlnFn("Image:", img)
	}
	return nil
}

// AddProduct collects a new listing and uploads it with its photos.
func (a *App) AddProduct(ctx context.Context) error {
	var p models.NewProduct
	var err error

	if p.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if p.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	raw, err := getSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return err
	}
	if p.Price, err = strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("%w: price must be a number", common.ErrValidation)
	}

	if p.Category, err = a.pickCategory(); err != nil {
		return err
	}

	raw, err = getSimpleText(a.reader, "Stock quantity (optional)", a.out)
	if err != nil {
		return err
	}
	if raw != "" {
		if p.StockQuantity, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("%w: stock quantity must be a whole number", common.ErrValidation)
		}
	}

	if p.Unit, err = getSimpleText(a.reader, "Unit (kg, pack, piece...)", a.out); err != nil {
		return err
	}
	if p.Images, err = GetList(a.reader, "Image file paths, one per line", a.out); err != nil {
		return err
	}

	if err := a.products.Create(ctx, p); err != nil {
		return err
	}
	printlnFn("Product listed.")
	return nil
}

// pickCategory accepts either the list number or the category slug.
func (a *App) pickCategory() (models.Category, error) {
	var b strings.Builder
	b.WriteString("Category:")
	for i, c := range models.Categories {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, c)
	}
	raw, err := getSimpleText(a.reader, b.String(), a.out)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(models.Categories) {
			return "", fmt.Errorf("%w: no category %d", common.ErrValidation, n)
		}
		return models.Categories[n-1], nil
	}
	return models.Category(raw), nil
}

func price(p models.Product) string {
	s := strconv.FormatFloat(p.Price, 'f', 2, 64)
	if p.Unit != "" {
		s += "/" + p.Unit
	}
	return s
}

// sellerName reads the seller either as a populated user object or as a
// bare id.
func sellerName(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case map[string]any:
		for _, k := range []string{"name", "first_name", "email", "_id"} {
			if name, ok := s[k].(string); ok && name != "" {
				if k == "first_name" {
					if last, ok := s["last_name"].(string); ok && last != "" {
						return name + " " + last
					}
				}
				return name
			}
		}
	}
	return ""
}
