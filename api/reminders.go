package api

import (
	"context"
	"net/url"
)

// ReminderService reads medication reminders.
type ReminderService struct {
	client *Client
}

// ListForUser fetches the reminders registered for an email address.
func (s *ReminderService) ListForUser(ctx context.Context, email string) ([]Reminder, error) {
	var reminders []Reminder
	if err := s.client.get(ctx, "/api/reminders/user/"+url.PathEscape(email), &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
