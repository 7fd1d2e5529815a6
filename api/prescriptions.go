package api

import "context"

// PrescriptionService reads the prescription review queue.
type PrescriptionService struct {
	client *Client
}

// Queue fetches prescriptions awaiting pharmacist review.
func (s *PrescriptionService) Queue(ctx context.Context) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := s.client.get(ctx, "/api/prescriptions", &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}
