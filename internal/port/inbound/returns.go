package inbound

import "github.com/gin-gonic/gin"

// ReturnHttpPort defines HTTP handler interface for customer return operations.
type ReturnHttpPort interface {
	// CheckEligibility handles GET /orders/:id/return-eligibility
	CheckEligibility(c *gin.Context)

	// CreateReturn handles POST /returns
	CreateReturn(c *gin.Context)

	// ListMyReturns handles GET /returns
	ListMyReturns(c *gin.Context)

	// GetReturn handles GET /returns/:id
	GetReturn(c *gin.Context)

	// CancelReturn handles POST /returns/:id/cancel
	CancelReturn(c *gin.Context)

	// DeleteReturn handles DELETE /returns/:id
	DeleteReturn(c *gin.Context)
}

// ReturnAdminHttpPort defines HTTP handler interface for admin return operations.
type ReturnAdminHttpPort interface {
	// ListReturns handles GET /admin/returns
	ListReturns(c *gin.Context)

	// GetReturn handles GET /admin/returns/:id
	GetReturn(c *gin.Context)

	// UpdateStatus handles PATCH /admin/returns/:id/status
	UpdateStatus(c *gin.Context)
}

// MessageHttpPort defines HTTP handler interface for return request messages.
// The same handlers serve the customer and admin route groups.
type MessageHttpPort interface {
	// ListMessages handles GET /returns/:id/messages
	ListMessages(c *gin.Context)

	// SendMessage handles POST /returns/:id/messages
	SendMessage(c *gin.Context)

	// MarkRead handles POST /returns/:id/messages/read
	MarkRead(c *gin.Context)
}

// NotificationHttpPort defines HTTP handler interface for unread badges.
type NotificationHttpPort interface {
	// UnreadCount handles GET /notifications/unread-count
	UnreadCount(c *gin.Context)

	// AdminUnreadCounts handles GET /admin/notifications/unread-counts
	AdminUnreadCounts(c *gin.Context)
}
