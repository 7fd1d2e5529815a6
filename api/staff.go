package api

import (
	"context"
	"net/url"
)

// StaffService is staff CRUD for the admin dashboard plus the
// admin-as-staff impersonation login.
type StaffService struct {
	client *Client
}

// List fetches all staff members.
func (s *StaffService) List(ctx context.Context) ([]StaffMember, error) {
	var staff []StaffMember
	if err := s.client.get(ctx, "/api/admin/staff", &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Create adds a staff member.
func (s *StaffService) Create(ctx context.Context, member StaffMember) (*StaffMember, error) {
	var created StaffMember
	if err := s.client.post(ctx, "/api/admin/staff", member, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a staff member's record.
func (s *StaffService) Update(ctx context.Context, member StaffMember) error {
	return s.client.put(ctx, "/api/admin/staff/"+url.PathEscape(member.ID), member, nil)
}

// Delete removes a staff member.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/api/admin/staff/"+url.PathEscape(id))
}

// Login performs admin-as-staff impersonation and returns the staff token.
// The caller decides where the session lives (session.Keyring keeps it
// under separate staff keys so the admin session survives).
func (s *StaffService) Login(ctx context.Context, staffID string) (*StaffSession, error) {
	body := map[string]string{"staffId": staffID}
	var session StaffSession
	if err := s.client.post(ctx, "/api/auth/staff-login", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
