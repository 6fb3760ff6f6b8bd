// internal/notifier/notifier.go

// Package notifier provides the outbound-email capability used to tell HR
// about a persisted application, with the resume attached.
package notifier

import "context"

// Attachment is the resume carried by a notification.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one HR notification. It is always built from an already
// persisted record; the subject references the record identifier.
type Message struct {
	From       string
	To         string
	Subject    string
	HTMLBody   string
	Attachment Attachment
}

// Notifier sends a single notification message. Delivery is not idempotent
// and is never retried by the caller; failures are delivery-kind
// StandardErrors.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
