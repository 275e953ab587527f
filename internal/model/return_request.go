package model

import (
	"time"

	"github.com/google/uuid"
)

// ReturnStatus represents the review state of a return request.
type ReturnStatus string

const (
	ReturnStatusPending    ReturnStatus = "pending"
	ReturnStatusApproved   ReturnStatus = "approved"
	ReturnStatusRejected   ReturnStatus = "rejected"
	ReturnStatusProcessing ReturnStatus = "processing"
	ReturnStatusCompleted  ReturnStatus = "completed"
	ReturnStatusCancelled  ReturnStatus = "cancelled"
)

// String returns the string representation of the status.
func (s ReturnStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid return status.
func (s ReturnStatus) IsValid() bool {
	_, ok := returnTransitions[s]
	return ok
}

// IsTerminal returns true if no further transition is permitted.
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusCompleted || s == ReturnStatusCancelled || s == ReturnStatusRejected
}

// CanTransitionTo checks if a transition from the current status to target is valid.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	for _, a := range returnTransitions[s] {
		if a == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s.
func (s ReturnStatus) AllowedTransitions() []ReturnStatus {
	return returnTransitions[s]
}

// returnTransitions defines valid state transitions.
var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:    {ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCancelled},
	ReturnStatusApproved:   {ReturnStatusProcessing, ReturnStatusCompleted, ReturnStatusCancelled},
	ReturnStatusProcessing: {ReturnStatusCompleted, ReturnStatusCancelled},
	ReturnStatusCompleted:  {}, // Terminal state
	ReturnStatusCancelled:  {}, // Terminal state
	ReturnStatusRejected:   {}, // Terminal state
}

// ReturnType represents the kind of after-sales request.
// Only ReturnTypeReturn can be created; the others are reserved.
type ReturnType string

const (
	ReturnTypeReturn   ReturnType = "return"
	ReturnTypeExchange ReturnType = "exchange"
	ReturnTypeRefund   ReturnType = "refund"
	ReturnTypeDispute  ReturnType = "dispute"
)

// IsValid checks if the type is a known return type.
func (t ReturnType) IsValid() bool {
	switch t {
	case ReturnTypeReturn, ReturnTypeExchange, ReturnTypeRefund, ReturnTypeDispute:
		return true
	}
	return false
}

// ReturnReason is the customer-selected reason for a return.
type ReturnReason string

const (
	ReturnReasonDefective         ReturnReason = "defective"
	ReturnReasonWrongItem         ReturnReason = "wrong_item"
	ReturnReasonNotAsDescribed    ReturnReason = "not_as_described"
	ReturnReasonChangeOfMind      ReturnReason = "change_of_mind"
	ReturnReasonDamagedInShipping ReturnReason = "damaged_in_shipping"
	ReturnReasonSizeIssue         ReturnReason = "size_issue"
	ReturnReasonQualityIssue      ReturnReason = "quality_issue"
	ReturnReasonOther             ReturnReason = "other"
)

// IsValid checks if the reason is known.
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReturnReasonDefective, ReturnReasonWrongItem, ReturnReasonNotAsDescribed,
		ReturnReasonChangeOfMind, ReturnReasonDamagedInShipping, ReturnReasonSizeIssue,
		ReturnReasonQualityIssue, ReturnReasonOther:
		return true
	}
	return false
}

// ReturnItem references an order line by its position in the order's item list.
type ReturnItem struct {
	OrderItemIndex int    `json:"order_item_index"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason,omitempty"`
}

// ReturnRequest is a customer's request to return a delivered order.
// Amounts are in the smallest currency unit (cents).
type ReturnRequest struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID           uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_return_requests_order_id"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index"`
	RMANumber         string        `gorm:"column:rma_number;uniqueIndex;not null"`
	Type              ReturnType    `gorm:"not null;default:return"`
	Reason            ReturnReason  `gorm:"not null"`
	Description       string        `gorm:"type:text;not null"`
	Status            ReturnStatus  `gorm:"not null;default:pending;index"`
	ReturnItems       []ReturnItem  `gorm:"serializer:json;type:jsonb;not null"`
	Evidence          []Attachment  `gorm:"serializer:json;type:jsonb;not null"`
	RequestedAmount   *int64
	ApprovedAmount    *int64
	TrackingNumber    *string
	AdminNotes        string `gorm:"type:text"`
	ExternalRefundRef *string
	SubmittedAt       time.Time
	ReviewedAt        *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the database table name.
func (ReturnRequest) TableName() string {
	return "return_requests"
}

// IsPending returns true if the request awaits review.
func (r *ReturnRequest) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// ReturnRequestFilter represents filter options for listing return requests.
type ReturnRequestFilter struct {
	Status *ReturnStatus
	UserID *uuid.UUID
}

// ReturnRequestResponse represents a return request in API responses.
// Monetary fields are decimal major units.
type ReturnRequestResponse struct {
	ID                uuid.UUID            `json:"id"`
	OrderID           uuid.UUID            `json:"order_id"`
	UserID            uuid.UUID            `json:"user_id"`
	RMANumber         string               `json:"rma_number"`
	Type              ReturnType           `json:"type"`
	Reason            ReturnReason         `json:"reason"`
	Description       string               `json:"description"`
	Status            ReturnStatus         `json:"status"`
	ReturnItems       []ReturnItem         `json:"return_items"`
	Evidence          []AttachmentResponse `json:"evidence"`
	RequestedAmount   *float64             `json:"requested_amount,omitempty"`
	ApprovedAmount    *float64             `json:"approved_amount,omitempty"`
	TrackingNumber    *string              `json:"tracking_number,omitempty"`
	AdminNotes        string               `json:"admin_notes,omitempty"`
	ExternalRefundRef *string              `json:"external_refund_ref,omitempty"`
	SubmittedAt       time.Time            `json:"submitted_at"`
	ReviewedAt        *time.Time           `json:"reviewed_at,omitempty"`
	CompletedAt       *time.Time           `json:"completed_at,omitempty"`
}

// ToResponse converts a ReturnRequest to ReturnRequestResponse.
// evidence carries the request's attachments already resolved to fetchable URLs.
func (r *ReturnRequest) ToResponse(evidence []ResolvedAttachment) *ReturnRequestResponse {
	resp := &ReturnRequestResponse{
		ID:                r.ID,
		OrderID:           r.OrderID,
		UserID:            r.UserID,
		RMANumber:         r.RMANumber,
		Type:              r.Type,
		Reason:            r.Reason,
		Description:       r.Description,
		Status:            r.Status,
		ReturnItems:       r.ReturnItems,
		Evidence:          make([]AttachmentResponse, len(evidence)),
		TrackingNumber:    r.TrackingNumber,
		AdminNotes:        r.AdminNotes,
		ExternalRefundRef: r.ExternalRefundRef,
		SubmittedAt:       r.SubmittedAt,
		ReviewedAt:        r.ReviewedAt,
		CompletedAt:       r.CompletedAt,
	}
	for i, e := range evidence {
		resp.Evidence[i] = e.ToResponse()
	}
	if r.RequestedAmount != nil {
		v := FromMinorUnits(*r.RequestedAmount).InexactFloat64()
		resp.RequestedAmount = &v
	}
	if r.ApprovedAmount != nil {
		v := FromMinorUnits(*r.ApprovedAmount).InexactFloat64()
		resp.ApprovedAmount = &v
	}
	return resp
}

// ReturnRequestListResponse represents a paginated list of return requests.
type ReturnRequestListResponse struct {
	Requests   []*ReturnRequestResponse `json:"requests"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}
