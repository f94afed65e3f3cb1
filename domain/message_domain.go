package domain

import "time"

var (
	MessageSuccessSendMessage      = "message sent successfully"
	MessageSuccessGetMessages      = "messages retrieved successfully"
	MessageSuccessGetConversations = "conversations retrieved successfully"

	MessageFailedSendMessage      = "failed to send message"
	MessageFailedGetMessages      = "failed to retrieve messages"
	MessageFailedGetConversations = "failed to retrieve conversations"
)

type (
	SendMessageRequest struct {
		ReceiverID string `json:"receiver_id" validate:"required,uuid"`
		DonationID string `json:"donation_id" validate:"required,uuid"`
		Content    string `json:"content" validate:"required"`
	}

	Message struct {
		ID         string     `json:"id"`
		DonationID string     `json:"donation_id"`
		SenderID   string     `json:"sender_id"`
		ReceiverID string     `json:"receiver_id"`
		Content    string     `json:"content"`
		ReadAt     *time.Time `json:"read_at,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	// Conversation is derived, never persisted: one entry per donation the
	// caller has exchanged messages about, carrying the most recent message.
	Conversation struct {
		DonationID    string     `json:"donation_id"`
		DonationTitle string     `json:"donation_title"`
		LastMessage   string     `json:"last_message"`
		LastTimestamp time.Time  `json:"last_timestamp"`
		OtherParty    PublicUser `json:"other_party"`
	}
)
