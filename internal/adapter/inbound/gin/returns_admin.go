package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uniedit/returns/internal/domain/attachment"
	"github.com/uniedit/returns/internal/domain/returns"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/inbound"
	"github.com/uniedit/returns/internal/shared/response"
)

// UpdateReturnStatusRequest is the body of PATCH /admin/returns/:id/status.
// approved_amount is in decimal currency units.
type UpdateReturnStatusRequest struct {
	Status         model.ReturnStatus `json:"status" binding:"required"`
	ApprovedAmount *decimal.Decimal   `json:"approved_amount" swaggertype:"number"`
	AdminNotes     *string            `json:"admin_notes"`
	TrackingNumber *string            `json:"tracking_number"`
}

// returnAdminHandler implements inbound.ReturnAdminHttpPort.
type returnAdminHandler struct {
	returnsDomain returns.ReturnsDomain
	resolver      attachment.Resolver
}

// NewReturnAdminHandler creates a new admin return HTTP handler.
func NewReturnAdminHandler(returnsDomain returns.ReturnsDomain, resolver attachment.Resolver) inbound.ReturnAdminHttpPort {
	return &returnAdminHandler{returnsDomain: returnsDomain, resolver: resolver}
}

// ListReturns lists every return request, optionally filtered.
//
//	@Summary		List return requests
//	@Tags			Returns Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status		query		string	false	"Status filter"
//	@Param			user_id		query		string	false	"Customer filter"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	model.ReturnRequestListResponse
//	@Failure		403			{object}	errors.ErrorResponse
//	@Router			/admin/returns [get]
func (h *returnAdminHandler) ListReturns(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	var filter *model.ReturnRequestFilter
	if statusStr := c.Query("status"); statusStr != "" {
		status := model.ReturnStatus(statusStr)
		if !status.IsValid() {
			handleError(c, returns.ErrInvalidStatus)
			return
		}
		filter = &model.ReturnRequestFilter{Status: &status}
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.BadRequest(c, "invalid user_id")
			return
		}
		if filter == nil {
			filter = &model.ReturnRequestFilter{}
		}
		filter.UserID = &userID
	}

	requests, total, err := h.returnsDomain.ListAll(c.Request.Context(), filter, p.Page, p.Limit())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReturnListResponse(c.Request.Context(), h.resolver, requests, total, p))
}

// GetReturn returns any return request.
//
//	@Summary		Get return request (admin)
//	@Tags			Returns Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Return request ID"
//	@Success		200	{object}	model.ReturnRequestResponse
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/admin/returns/{id} [get]
func (h *returnAdminHandler) GetReturn(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.returnsDomain.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	writeReturn(c, http.StatusOK, h.resolver, req)
}

// UpdateStatus moves a return request through its lifecycle.
// Approving issues the refund before the new status is stored.
//
//	@Summary		Update return request status
//	@Tags			Returns Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id				path		string						true	"Return request ID"
//	@Param			Idempotency-Key	header		string						false	"Replay protection key"
//	@Param			request			body		UpdateReturnStatusRequest	true	"New status"
//	@Success		200				{object}	model.ReturnRequestResponse
//	@Failure		409				{object}	errors.ErrorResponse
//	@Failure		422				{object}	errors.ErrorResponse
//	@Failure		502				{object}	errors.ErrorResponse
//	@Failure		503				{object}	errors.ErrorResponse
//	@Router			/admin/returns/{id}/status [patch]
func (h *returnAdminHandler) UpdateStatus(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.returnsDomain.Transition(c.Request.Context(), id, &returns.TransitionInput{
		Status:         req.Status,
		ApprovedAmount: req.ApprovedAmount,
		AdminNotes:     req.AdminNotes,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	writeReturn(c, http.StatusOK, h.resolver, updated)
}

var _ inbound.ReturnAdminHttpPort = (*returnAdminHandler)(nil)
