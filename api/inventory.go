package api

import (
	"context"
	"net/url"
)

// InventoryService is inventory CRUD. Pharmacist staff read and edit
// through the staff endpoints; the admin dashboard has its own read.
type InventoryService struct {
	client *Client
}

// List fetches inventory for the pharmacist dashboard.
func (s *InventoryService) List(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := s.client.get(ctx, "/api/staff/inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AdminList fetches inventory for the admin dashboard.
func (s *InventoryService) AdminList(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := s.client.get(ctx, "/api/admin/inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create adds an inventory item.
func (s *InventoryService) Create(ctx context.Context, item InventoryItem) (*InventoryItem, error) {
	var created InventoryItem
	if err := s.client.post(ctx, "/api/staff/inventory", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces an inventory item.
func (s *InventoryService) Update(ctx context.Context, item InventoryItem) error {
	return s.client.put(ctx, "/api/staff/inventory/"+url.PathEscape(item.ID), item, nil)
}
