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

// CreateReturnRequest is the body of POST /returns.
type CreateReturnRequest struct {
	OrderID         string             `json:"order_id" binding:"required,uuid"`
	Type            model.ReturnType   `json:"type"`
	Reason          model.ReturnReason `json:"reason" binding:"required"`
	Description     string             `json:"description"`
	ReturnItems     []model.ReturnItem `json:"return_items"`
	Evidence        []model.Attachment `json:"evidence"`
	RequestedAmount *decimal.Decimal   `json:"requested_amount" swaggertype:"number"`
}

// returnHandler implements inbound.ReturnHttpPort.
type returnHandler struct {
	returnsDomain returns.ReturnsDomain
	resolver      attachment.Resolver
}

// NewReturnHandler creates a new customer return HTTP handler.
func NewReturnHandler(returnsDomain returns.ReturnsDomain, resolver attachment.Resolver) inbound.ReturnHttpPort {
	return &returnHandler{returnsDomain: returnsDomain, resolver: resolver}
}

// CheckEligibility reports whether an order can start a return.
//
//	@Summary		Check return eligibility
//	@Tags			Returns
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	returns.EligibilityReport
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/orders/{id}/return-eligibility [get]
func (h *returnHandler) CheckEligibility(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.returnsDomain.CheckEligibility(c.Request.Context(), orderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CreateReturn submits a return request for a delivered order.
//
//	@Summary		Create return request
//	@Tags			Returns
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateReturnRequest	true	"Return request"
//	@Success		201		{object}	model.ReturnRequestResponse
//	@Failure		400		{object}	errors.ErrorResponse
//	@Failure		409		{object}	errors.ErrorResponse
//	@Failure		422		{object}	errors.ErrorResponse
//	@Router			/returns [post]
func (h *returnHandler) CreateReturn(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = model.ReturnTypeReturn
	}

	created, err := h.returnsDomain.Create(c.Request.Context(), userID, &returns.CreateInput{
		OrderID:         uuid.MustParse(req.OrderID),
		Type:            req.Type,
		Reason:          req.Reason,
		Description:     req.Description,
		ReturnItems:     req.ReturnItems,
		Evidence:        req.Evidence,
		RequestedAmount: req.RequestedAmount,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	writeReturn(c, http.StatusCreated, h.resolver, created)
}

// ListMyReturns returns the caller's return requests, newest first.
//
//	@Summary		List my return requests
//	@Tags			Returns
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page		query		int	false	"Page"		default(1)
//	@Param			page_size	query		int	false	"Page size"	default(20)
//	@Success		200			{object}	model.ReturnRequestListResponse
//	@Router			/returns [get]
func (h *returnHandler) ListMyReturns(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	requests, total, err := h.returnsDomain.ListMine(c.Request.Context(), userID, p.Page, p.Limit())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReturnListResponse(c.Request.Context(), h.resolver, requests, total, p))
}

// GetReturn returns one of the caller's return requests.
//
//	@Summary		Get return request
//	@Tags			Returns
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Return request ID"
//	@Success		200	{object}	model.ReturnRequestResponse
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/returns/{id} [get]
func (h *returnHandler) GetReturn(c *gin.Context) {
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

// CancelReturn withdraws a pending return request.
//
//	@Summary		Cancel return request
//	@Tags			Returns
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Return request ID"
//	@Success		200	{object}	model.ReturnRequestResponse
//	@Failure		409	{object}	errors.ErrorResponse
//	@Router			/returns/{id}/cancel [post]
func (h *returnHandler) CancelReturn(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cancelled, err := h.returnsDomain.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	writeReturn(c, http.StatusOK, h.resolver, cancelled)
}

// DeleteReturn removes a pending return request and its messages.
//
//	@Summary		Delete return request
//	@Tags			Returns
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Return request ID"
//	@Success		204
//	@Failure		409	{object}	errors.ErrorResponse
//	@Router			/returns/{id} [delete]
func (h *returnHandler) DeleteReturn(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.returnsDomain.Delete(c.Request.Context(), id, userID); err != nil {
		handleError(c, err)
		return
	}

	noContent(c)
}

var _ inbound.ReturnHttpPort = (*returnHandler)(nil)
