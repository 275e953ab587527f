package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// AttachmentKind tags the variant held by an Attachment.
type AttachmentKind string

const (
	// AttachmentStored is an object key in the service's bucket.
	AttachmentStored AttachmentKind = "stored"
	// AttachmentExternal is a fully-qualified URL hosted elsewhere.
	AttachmentExternal AttachmentKind = "url"
)

// ErrInvalidAttachment is returned when an attachment cannot be constructed.
var ErrInvalidAttachment = errors.New("invalid attachment")

// Attachment is either a stored object reference or an external URL.
// The zero value is invalid; build one with StoredRef or ExternalURL.
type Attachment struct {
	kind  AttachmentKind
	value string
}

// StoredRef creates an attachment pointing at a stored object key.
func StoredRef(key string) (Attachment, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Attachment{}, fmt.Errorf("%w: empty object key", ErrInvalidAttachment)
	}
	return Attachment{kind: AttachmentStored, value: key}, nil
}

// ExternalURL creates an attachment pointing at an absolute http(s) URL.
func ExternalURL(raw string) (Attachment, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Attachment{}, fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidAttachment, raw)
	}
	return Attachment{kind: AttachmentExternal, value: raw}, nil
}

// Kind returns the variant tag.
func (a Attachment) Kind() AttachmentKind {
	return a.kind
}

// Ref returns the object key for stored attachments.
func (a Attachment) Ref() (string, bool) {
	return a.value, a.kind == AttachmentStored
}

// URL returns the address for external attachments.
func (a Attachment) URL() (string, bool) {
	return a.value, a.kind == AttachmentExternal
}

// Raw returns the underlying reference regardless of variant.
func (a Attachment) Raw() string {
	return a.value
}

// IsValid reports whether the attachment was built through a constructor.
func (a Attachment) IsValid() bool {
	return (a.kind == AttachmentStored || a.kind == AttachmentExternal) && a.value != ""
}

// attachmentJSON is the tagged wire form shared by the API and the jsonb columns.
type attachmentJSON struct {
	Kind AttachmentKind `json:"kind"`
	Ref  string         `json:"ref,omitempty"`
	URL  string         `json:"url,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a Attachment) MarshalJSON() ([]byte, error) {
	out := attachmentJSON{Kind: a.kind}
	switch a.kind {
	case AttachmentStored:
		out.Ref = a.value
	case AttachmentExternal:
		out.URL = a.value
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAttachment, a.kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var in attachmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}

	var (
		parsed Attachment
		err    error
	)
	switch in.Kind {
	case AttachmentStored:
		parsed, err = StoredRef(in.Ref)
	case AttachmentExternal:
		parsed, err = ExternalURL(in.URL)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidAttachment, in.Kind)
	}
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ResolvedAttachment pairs an attachment with a URL a client can fetch.
type ResolvedAttachment struct {
	Attachment  Attachment
	ResolvedURL string
}

// AttachmentResponse represents an attachment in API responses.
type AttachmentResponse struct {
	Kind        AttachmentKind `json:"kind"`
	Ref         string         `json:"ref,omitempty"`
	URL         string         `json:"url,omitempty"`
	ResolvedURL string         `json:"resolved_url"`
}

// ToResponse converts a ResolvedAttachment to AttachmentResponse.
func (r ResolvedAttachment) ToResponse() AttachmentResponse {
	resp := AttachmentResponse{
		Kind:        r.Attachment.Kind(),
		ResolvedURL: r.ResolvedURL,
	}
	if ref, ok := r.Attachment.Ref(); ok {
		resp.Ref = ref
	}
	if u, ok := r.Attachment.URL(); ok {
		resp.URL = u
	}
	return resp
}
