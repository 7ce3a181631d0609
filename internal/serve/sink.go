// Package serve distributes encoded position sentences to navigation
// clients and drives the poll/encode/broadcast cycle.
package serve

// Sink is one output transport for the sentence payload. Delivery is
// fire-and-forget: a sink never reports write failures upward, it handles
// them itself (typically by evicting the failed client).
type Sink interface {
	// Poll performs bounded per-cycle connection upkeep (draining pending
	// TCP accepts). Called once at the top of every cycle; must not block
	// beyond a short fixed window.
	Poll()

	// Broadcast delivers one payload to every current destination.
	Broadcast(payload []byte)

	Close() error
}
