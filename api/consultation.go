package api

import "context"

// ConsultationService creates paid doctor bookings and lists them for the
// admin dashboard.
type ConsultationService struct {
	client *Client
}

// BookingRequest is the payload for a paid consultation booking.
type BookingRequest struct {
	DoctorID string  `json:"doctorId"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Fee      float64 `json:"fee"`
	Notes    string  `json:"notes,omitempty"`
}

// CreateBooking confirms a paid booking. idempotencyKey is minted per
// submission attempt (see checkout.Submission) so the server can
// deduplicate a double-click or client retry once it supports the header.
func (s *ConsultationService) CreateBooking(ctx context.Context, req BookingRequest, idempotencyKey string) (*Booking, error) {
	var booking Booking
	err := s.client.post(ctx, "/api/consultation/confirmation", req, &booking,
		withHeader("Idempotency-Key", idempotencyKey))
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// AdminList fetches all bookings for the admin dashboard.
func (s *ConsultationService) AdminList(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := s.client.get(ctx, "/api/consultation/admin/all", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
