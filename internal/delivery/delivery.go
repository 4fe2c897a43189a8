// Package delivery defines the contract every transport entry point
// implements, letting main start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport surface (HTTP server, MQTT
// subscriber, background worker).
type Delivery interface {
	Serve(ctx context.Context) error
}
