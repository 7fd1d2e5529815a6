package api

import (
	"context"
	"net/http"
	"net/url"
)

// ProductService reads the product catalog. Detail and related reads run
// under the shorter product timeout so a slow catalog cannot hang a
// product page.
type ProductService struct {
	client *Client
}

// Get fetches one product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.client.doWithTimeout(ctx, s.client.productTimeout,
		http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Related fetches products related to the given one.
func (s *ProductService) Related(ctx context.Context, id string) ([]Product, error) {
	var products []Product
	err := s.client.doWithTimeout(ctx, s.client.productTimeout,
		http.MethodGet, "/api/products/"+url.PathEscape(id)+"/related", nil, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}
