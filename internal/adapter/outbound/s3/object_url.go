package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/uniedit/returns/internal/port/outbound"
)

// DefaultPresignTTL is how long a signed attachment URL stays valid.
const DefaultPresignTTL = 15 * time.Minute

// objectURLAdapter implements outbound.ObjectURLPort with presigned GET URLs.
type objectURLAdapter struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
}

// NewObjectURLAdapter creates an adapter that signs keys in bucket.
func NewObjectURLAdapter(client *s3.Client, bucket string, ttl time.Duration) outbound.ObjectURLPort {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	return &objectURLAdapter{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		ttl:       ttl,
	}
}

func (a *objectURLAdapter) PresignedURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errors.New("empty object key")
	}

	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

var _ outbound.ObjectURLPort = (*objectURLAdapter)(nil)
