package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"go.uber.org/zap"
)

// Transition moves a request to a new status on behalf of an admin.
//
// Approval refunds through the payment gateway before anything is written. If
// the refund fails the request keeps its previous status and nothing else
// changes. Every successful transition leaves a status_update message for
// the customer.
func (d *returnsDomain) Transition(ctx context.Context, requestID uuid.UUID, in *TransitionInput) (*model.ReturnRequest, error) {
	admin, err := d.authz.RequireRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if in == nil || !in.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if in.ApprovedAmount != nil {
		if in.Status != model.ReturnStatusApproved {
			return nil, ErrAmountNotApplicable
		}
		if in.ApprovedAmount.IsNegative() {
			return nil, ErrInvalidAmount
		}
	}

	current, err := d.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, in.Status)
	}

	now := d.now()
	updated := *current
	updated.Status = in.Status
	updated.UpdatedAt = now
	switch in.Status {
	case model.ReturnStatusApproved, model.ReturnStatusRejected:
		updated.ReviewedAt = &now
	case model.ReturnStatusCompleted, model.ReturnStatusCancelled:
		updated.CompletedAt = &now
	}
	if in.AdminNotes != nil {
		updated.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}
	if in.TrackingNumber != nil {
		tracking := strings.TrimSpace(*in.TrackingNumber)
		updated.TrackingNumber = &tracking
	}

	var (
		order   *model.Order
		outcome *refundOutcome
	)
	if in.Status == model.ReturnStatusApproved {
		order, err = d.orderDB.GetByIDWithItems(ctx, current.OrderID)
		if err != nil {
			return nil, fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}

		// Clamped against the order total before narrowing, so no input can overflow.
		var approvalAmount *int64
		if in.ApprovedAmount != nil {
			cents := model.ClampMinorUnits(*in.ApprovedAmount, order.TotalAmount)
			approvalAmount = &cents
		}
		amount := ResolveRefundAmount(approvalAmount, current.ApprovedAmount, order.TotalAmount)
		outcome, err = d.issueRefund(ctx, current, order, amount)
		if err != nil {
			return nil, err
		}
		updated.ApprovedAmount = &outcome.Amount
		if outcome.Result != nil {
			updated.ExternalRefundRef = &outcome.Result.ID
		}
	}

	statusMessage := &model.Message{
		ID:              uuid.New(),
		ReturnRequestID: current.ID,
		SenderID:        admin.UserID,
		SenderType:      model.SenderAdmin,
		Body:            fmt.Sprintf("Return request status changed to %s", in.Status),
		MessageType:     model.MessageTypeStatusUpdate,
		CreatedAt:       now,
	}

	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := d.returnDB.UpdateIfStatus(ctx, &updated, current.Status)
		if err != nil {
			return fmt.Errorf("update return request: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}

		if outcome != nil && outcome.Result != nil {
			note := outcome.orderNote(current.RMANumber)
			if outcome.Full {
				err = d.orderDB.MarkRefunded(ctx, order.ID, note)
			} else {
				err = d.orderDB.AppendAdminNote(ctx, order.ID, note)
			}
			if err != nil {
				return fmt.Errorf("patch order: %w", err)
			}
		}

		if err := d.messageDB.Create(ctx, statusMessage); err != nil {
			return fmt.Errorf("create status message: %w", err)
		}
		return nil
	})
	if err != nil {
		if outcome != nil && outcome.Result != nil {
			// Money moved but the approval was not recorded. A retry reuses the idempotency key.
			d.logger.Error("refund issued but approval not persisted",
				zap.String("return_request_id", current.ID.String()),
				zap.String("refund_id", outcome.Result.ID),
				zap.Int64("amount", outcome.Amount),
				zap.Error(err),
			)
		}
		if errors.Is(err, ErrInvalidState) {
			return nil, err
		}
		return nil, fmt.Errorf("persist transition: %w", err)
	}

	d.invalidateUnread(ctx, current.UserID)
	d.recorder.RecordReturnTransition(string(current.Status), string(updated.Status))
	d.logger.Info("return request transitioned",
		zap.String("return_request_id", current.ID.String()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("admin_id", admin.UserID.String()),
	)
	return &updated, nil
}
