package model

import (
	"time"

	"github.com/google/uuid"
)

// SenderType identifies which party authored a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAdmin    SenderType = "admin"
)

// SenderTypeForRole maps a caller role to the sender type stamped on messages.
func SenderTypeForRole(role Role) SenderType {
	if role == RoleAdmin {
		return SenderAdmin
	}
	return SenderCustomer
}

// Counterpart returns the sender type of the other party.
func (s SenderType) Counterpart() SenderType {
	if s == SenderAdmin {
		return SenderCustomer
	}
	return SenderAdmin
}

// MessageType classifies a message.
type MessageType string

const (
	MessageTypeText          MessageType = "text"
	MessageTypeStatusUpdate  MessageType = "status_update"
	MessageTypeAdminResponse MessageType = "admin_response"
)

// Message is one entry of the append-only conversation attached to a return request.
// IsRead tracks whether the recipient (the party other than SenderType) has read it.
type Message struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReturnRequestID uuid.UUID    `gorm:"type:uuid;not null;index:idx_return_messages_request_read,priority:1"`
	SenderID        uuid.UUID    `gorm:"type:uuid;not null"`
	SenderType      SenderType   `gorm:"not null;index:idx_return_messages_request_read,priority:2"`
	Body            string       `gorm:"type:text;not null"`
	MessageType     MessageType  `gorm:"not null;default:text"`
	IsRead          bool         `gorm:"not null;default:false;index:idx_return_messages_request_read,priority:3"`
	Attachments     []Attachment `gorm:"serializer:json;type:jsonb"`
	CreatedAt       time.Time    `gorm:"index"`
}

// TableName returns the database table name.
func (Message) TableName() string {
	return "return_messages"
}

// MessageView is a message with its attachments resolved for display.
type MessageView struct {
	Message     *Message
	Attachments []ResolvedAttachment
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID              uuid.UUID            `json:"id"`
	ReturnRequestID uuid.UUID            `json:"return_request_id"`
	SenderID        uuid.UUID            `json:"sender_id"`
	SenderType      SenderType           `json:"sender_type"`
	Body            string               `json:"body"`
	MessageType     MessageType          `json:"message_type"`
	IsRead          bool                 `json:"is_read"`
	Attachments     []AttachmentResponse `json:"attachments"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ToResponse converts a MessageView to MessageResponse.
func (v *MessageView) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:              v.Message.ID,
		ReturnRequestID: v.Message.ReturnRequestID,
		SenderID:        v.Message.SenderID,
		SenderType:      v.Message.SenderType,
		Body:            v.Message.Body,
		MessageType:     v.Message.MessageType,
		IsRead:          v.Message.IsRead,
		Attachments:     make([]AttachmentResponse, len(v.Attachments)),
		CreatedAt:       v.Message.CreatedAt,
	}
	for i, a := range v.Attachments {
		resp.Attachments[i] = a.ToResponse()
	}
	return resp
}

// RequestUnreadCount is the number of unread messages on one return request.
type RequestUnreadCount struct {
	ReturnRequestID uuid.UUID `json:"return_request_id"`
	RMANumber       string    `json:"rma_number"`
	Unread          int64     `json:"unread"`
}

// AdminUnreadSummary aggregates unread customer-authored messages across all requests.
type AdminUnreadSummary struct {
	Total     int64                `json:"total"`
	ByRequest []RequestUnreadCount `json:"by_request"`
}
