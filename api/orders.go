package api

import (
	"context"
	"net/url"
)

// OrderService lists orders for the customer and delivery dashboards and
// moves them through their status transitions.
type OrderService struct {
	client *Client
}

// List fetches the orders visible to the current token (a customer sees
// their own, delivery staff see assigned ones).
func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.client.get(ctx, "/api/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus transitions one order (e.g. "processing" -> "out-for-delivery").
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"status": status}
	return s.client.patch(ctx, "/api/orders/"+url.PathEscape(orderID), body, nil)
}
