package api

import (
	"context"
	"net/http"
	"net/url"
)

// AvailabilityService is the remote side of the doctor availability
// calendar. Slots are keyed by (date, time); deletion addresses one slot
// through query parameters.
type AvailabilityService struct {
	client *Client
}

// List fetches every saved slot for the authenticated doctor.
func (s *AvailabilityService) List(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	if err := s.client.get(ctx, "/api/doctor/availability", &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Add saves one slot.
func (s *AvailabilityService) Add(ctx context.Context, slot Slot) error {
	return s.client.post(ctx, "/api/doctor/availability", slot, nil)
}

// Delete removes one slot.
func (s *AvailabilityService) Delete(ctx context.Context, slot Slot) error {
	q := url.Values{}
	q.Set("date", slot.Date)
	q.Set("time", slot.Time)
	return s.client.do(ctx, http.MethodDelete, "/api/doctor/availability?"+q.Encode(), nil, nil)
}
