package outbound

import "context"

// ObjectURLPort turns stored object keys into URLs a client can fetch.
type ObjectURLPort interface {
	// PresignedURL returns a time-limited GET URL for the object.
	PresignedURL(ctx context.Context, key string) (string, error)
}
