package api

import (
	"context"
	"net/url"
)

// CartService is the remote side of the authenticated cart. Guest carts
// never touch these endpoints; they live in the session keyring until
// login merges them.
type CartService struct {
	client *Client
}

// Get fetches the user's cart items.
func (s *CartService) Get(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := s.client.get(ctx, "/api/cart", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add adds an item to the cart. Adding an existing product id is merged by
// the backend the same way the local mirror merges it.
func (s *CartService) Add(ctx context.Context, item CartItem) error {
	return s.client.post(ctx, "/api/cart", item, nil)
}

// UpdateQuantity sets the quantity of one cart row.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return s.client.patch(ctx, "/api/cart/"+url.PathEscape(productID), body, nil)
}

// Remove deletes one cart row.
func (s *CartService) Remove(ctx context.Context, productID string) error {
	return s.client.delete(ctx, "/api/cart/"+url.PathEscape(productID))
}

// Replace overwrites the whole remote cart with the given items. The
// "Update Cart" action uses this to push all pending quantity edits at once.
func (s *CartService) Replace(ctx context.Context, items []CartItem) error {
	body := map[string][]CartItem{"items": items}
	return s.client.put(ctx, "/api/cart", body, nil)
}

// Clear empties the cart, used after checkout completes.
func (s *CartService) Clear(ctx context.Context) error {
	return s.client.delete(ctx, "/api/cart")
}
