package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/netx"
)

// ProductService covers the marketplace screens.
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p models.NewProduct) error
}

type productService struct {
	api authedAPI
}

func NewProductService(doer client.Doer, tokens TokenSource) ProductService {
	return &productService{api: authedAPI{doer: doer, tokens: tokens}}
}

// List accepts either {"products": [...]} or a bare array.
func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	resp, err := s.api.call(ctx, &client.Request{Method: http.MethodGet, Path: "/products"})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var products []models.Product
	if resp.IsArray() {
		err = resp.Decode(&products)
	} else {
		var wrapped struct {
			Products []models.Product `json:"products"`
		}
		err = resp.Decode(&wrapped)
		products = wrapped.Products
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get accepts either {"product": {...}} or the bare record.
func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("get product: empty id")
	}
	resp, err := s.api.call(ctx, &client.Request{Method: http.MethodGet, Path: "/products/" + url.PathEscape(id)})
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	var wrapped struct {
		Product json.RawMessage `json:"product"`
	}
	raw := resp.Body
	if err := resp.Decode(&wrapped); err == nil && len(wrapped.Product) > 0 && string(wrapped.Product) != "null" {
		raw = wrapped.Product
	}

	var p models.Product
	if err := (&client.Response{Status: resp.Status, Body: raw}).Decode(&p); err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// Create validates the form and posts it as multipart. Images are sent as
// photo_<i>.<ext> parts named "images".
func (s *productService) Create(ctx context.Context, p models.NewProduct) error {
	if err := models.Validate(p); err != nil {
		return err
	}

	form := ProductForm(p)
	if _, err := s.api.call(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/products/new-product",
		Form:   form,
	}, "message", "msg"); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// ProductForm renders the listing form as multipart fields.
func ProductForm(p models.NewProduct) *netx.Form {
	form := netx.NewForm().
		Field("name", p.Name).
		Field("description", p.Description).
		Field("price", strconv.FormatFloat(p.Price, 'f', -1, 64)).
		Field("category", string(p.Category)).
		Field("stock_quantity", strconv.Itoa(p.StockQuantity)).
		Field("unit", p.Unit)

	for i, path := range p.Images {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if ext == "" {
			ext = "jpg"
		}
		form.File("images", path, fmt.Sprintf("photo_%d.%s", i, ext))
	}
	return form
}
