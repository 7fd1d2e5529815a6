package api

import (
	"context"
	"net/url"
)

// AppointmentService manages a doctor's own appointment list.
type AppointmentService struct {
	client *Client
}

// DoctorList fetches the authenticated doctor's appointments.
func (s *AppointmentService) DoctorList(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := s.client.get(ctx, "/api/appointment/doctor", &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// Cancel cancels one appointment.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID string) error {
	return s.client.post(ctx, "/api/appointment/doctor/cancel/"+url.PathEscape(appointmentID), nil, nil)
}
