package attachment

import (
	"context"

	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// Resolver turns attachments into URLs a client can fetch.
// Resolution never fails: a stored reference that cannot be signed is returned as-is.
type Resolver interface {
	Resolve(ctx context.Context, attachments []model.Attachment) []model.ResolvedAttachment
}

type resolver struct {
	objects outbound.ObjectURLPort
	logger  *zap.Logger
}

// NewResolver creates a resolver. objects may be nil when no object storage is configured.
func NewResolver(objects outbound.ObjectURLPort, logger *zap.Logger) Resolver {
	return &resolver{objects: objects, logger: logger}
}

func (r *resolver) Resolve(ctx context.Context, attachments []model.Attachment) []model.ResolvedAttachment {
	out := make([]model.ResolvedAttachment, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, model.ResolvedAttachment{
			Attachment:  a,
			ResolvedURL: r.resolveOne(ctx, a),
		})
	}
	return out
}

func (r *resolver) resolveOne(ctx context.Context, a model.Attachment) string {
	switch a.Kind() {
	case model.AttachmentExternal:
		u, _ := a.URL()
		return u
	case model.AttachmentStored:
		key, _ := a.Ref()
		if r.objects == nil {
			return key
		}
		signed, err := r.objects.PresignedURL(ctx, key)
		if err != nil {
			r.logger.Warn("attachment presign failed, returning raw reference",
				zap.String("key", key),
				zap.Error(err),
			)
			return key
		}
		return signed
	default:
		return a.Raw()
	}
}
