package api

import (
	"context"
	"net/url"
)

// ContactService submits the public contact form and manages the admin
// message inbox.
type ContactService struct {
	client *Client
}

// ContactRequest is a contact-form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit sends a contact-form message.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) error {
	return s.client.post(ctx, "/api/contact", req, nil)
}

// AdminMessages fetches the admin inbox.
func (s *ContactService) AdminMessages(ctx context.Context) ([]ContactMessage, error) {
	var messages []ContactMessage
	if err := s.client.get(ctx, "/api/admin/messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkNotificationRead marks one inbox notification as read.
func (s *ContactService) MarkNotificationRead(ctx context.Context, id string) error {
	return s.client.patch(ctx, "/api/contact/admin/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}
