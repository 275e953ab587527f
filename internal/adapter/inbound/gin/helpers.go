package gin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/domain/attachment"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/shared/response"
	"github.com/uniedit/returns/internal/utils/middleware"
	"github.com/uniedit/returns/internal/utils/pagination"
)

// GetUserIDFromContext extracts the authenticated user ID from gin context.
// Returns the user ID and true if successful; otherwise it writes a 401 and returns false.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindPagination reads page and page_size from the query string.
func bindPagination(c *gin.Context) (*pagination.Pagination, bool) {
	p := pagination.New()
	if err := c.ShouldBindQuery(p); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}
	return p, true
}

func toReturnResponse(ctx context.Context, resolver attachment.Resolver, r *model.ReturnRequest) *model.ReturnRequestResponse {
	return r.ToResponse(resolver.Resolve(ctx, r.Evidence))
}

func toReturnListResponse(ctx context.Context, resolver attachment.Resolver, requests []*model.ReturnRequest, total int64, p *pagination.Pagination) model.ReturnRequestListResponse {
	out := make([]*model.ReturnRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = toReturnResponse(ctx, resolver, r)
	}
	return model.ReturnRequestListResponse{
		Requests:   out,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.Limit(),
		TotalPages: p.TotalPages(total),
	}
}

func writeReturn(c *gin.Context, status int, resolver attachment.Resolver, r *model.ReturnRequest) {
	c.JSON(status, toReturnResponse(c.Request.Context(), resolver, r))
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
