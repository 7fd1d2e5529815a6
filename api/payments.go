package api

import "context"

// PaymentService reads revenue reporting for the admin dashboard.
type PaymentService struct {
	client *Client
}

// Summary fetches the head-line revenue numbers.
func (s *PaymentService) Summary(ctx context.Context) (*PaymentSummary, error) {
	var summary PaymentSummary
	if err := s.client.get(ctx, "/api/payments/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MonthlySummary fetches per-month revenue.
func (s *PaymentService) MonthlySummary(ctx context.Context) ([]MonthlyRevenue, error) {
	var months []MonthlyRevenue
	if err := s.client.get(ctx, "/api/payments/summary/monthly", &months); err != nil {
		return nil, err
	}
	return months, nil
}
