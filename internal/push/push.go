// Package push delivers reminder notifications to household devices.
package push

import (
	"context"
)

// Message is one logical notification fanned out to a set of device
// tokens. Data rides along for the client to deep-link on tap.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// BatchResult reports per-token delivery outcomes of one multicast call.
type BatchResult struct {
	SuccessCount int
	FailureCount int
}

// Sender is the delivery gateway the reminder job talks to. A non-nil
// error means the call itself failed (transport level); individual
// token failures only show up in the BatchResult counts.
type Sender interface {
	SendMulticast(ctx context.Context, tokens []string, msg Message) (*BatchResult, error)
}
