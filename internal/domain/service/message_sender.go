// Package service defines interfaces for external collaborators of the core.
package service

import "context"

// MessageSender delivers a rendered text message to a guardian through the
// outbound channel. Implementations must be safe for concurrent use.
type MessageSender interface {
	// Send delivers body to the destination address and returns the
	// channel's message ID on success.
	Send(ctx context.Context, destination, body string) (messageID string, err error)
}
