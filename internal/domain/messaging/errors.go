package messaging

import (
	"fmt"

	"github.com/uniedit/returns/internal/domain/returns"
)

var (
	ErrEmptyMessage      = fmt.Errorf("%w: message needs a body or an attachment", returns.ErrValidation)
	ErrInvalidAttachment = fmt.Errorf("%w: attachment is invalid", returns.ErrValidation)
	ErrMessageTooLong    = fmt.Errorf("%w: message body is too long", returns.ErrValidation)
	ErrRoleMismatch      = fmt.Errorf("%w: reader role does not match caller", returns.ErrAccessDenied)
	ErrRequestClosed     = fmt.Errorf("%w: return request is closed for messages", returns.ErrInvalidState)
)
