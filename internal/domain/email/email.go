package email

import (
	"context"
	"fmt"
	"strings"
)

// Message is a fully composed notification, ready for dispatch. To and Cc
// keep their pipeline ordering; AttachmentPath points at the compliance
// guidelines document attached to every notification.
type Message struct {
	To             []string
	Cc             []string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// Sender dispatches a composed message through the mail client. This
// interface decouples the pipeline from the concrete mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrorKind classifies dispatch failures.
type ErrorKind string

const (
	// ErrAttachmentNotFound means the guidelines document is missing. Fatal
	// for the run: no notification may go out without it.
	ErrAttachmentNotFound ErrorKind = "ATTACHMENT_NOT_FOUND"
	// ErrClientUnavailable means the mail client rejected the connection.
	ErrClientUnavailable ErrorKind = "CLIENT_UNAVAILABLE"
	// ErrRateLimited means the client asked us to slow down. The caller
	// pauses and retries the same message.
	ErrRateLimited ErrorKind = "RATE_LIMITED"
)

// SendError is a classified dispatch failure.
type SendError struct {
	Kind ErrorKind
	Err  error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// NewSendError wraps err with a dispatch classification.
func NewSendError(kind ErrorKind, err error) *SendError {
	return &SendError{Kind: kind, Err: err}
}

// JoinAddresses renders an address list in the wire format the mail client
// expects for a header field: every entry followed by "; ".
func JoinAddresses(addrs []string) string {
	var b strings.Builder
	for _, a := range addrs {
		b.WriteString(a)
		b.WriteString("; ")
	}
	return b.String()
}

// SplitAddresses is the inverse of JoinAddresses.
func SplitAddresses(header string) []string {
	parts := strings.Split(header, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
