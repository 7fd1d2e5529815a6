package api

import "context"

// ChatbotService talks to the product-aware assistant. The conversation id
// is persisted by session.Keyring so a conversation survives page loads.
type ChatbotService struct {
	client *Client
}

// Chat sends one message and returns the assistant reply with any product
// sources it cited. Pass an empty conversationID to start a conversation;
// the response carries the id to use from then on.
func (s *ChatbotService) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	body := map[string]string{
		"message":        message,
		"conversationId": conversationID,
	}
	var resp ChatResponse
	if err := s.client.post(ctx, "/api/chatbot/chat", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
