package entity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ConfirmationState is one step of the operator-visible scan lifecycle.
type ConfirmationState string

// Confirmation states. Every instance starts in Submitted; Closed is
// absorbing and a new scan always creates a new instance.
const (
	ConfirmationSubmitted           ConfirmationState = "submitted"
	ConfirmationLocationResolved    ConfirmationState = "location_resolved"
	ConfirmationNotificationPending ConfirmationState = "notification_pending"
	ConfirmationNotificationSent    ConfirmationState = "notification_sent"
	ConfirmationNotificationFailed  ConfirmationState = "notification_failed"
	ConfirmationClosed              ConfirmationState = "closed"
)

// Confirmation drives the visible lifecycle of a single scan from submission
// to closure. State lives on the instance, not in shared globals, so a
// confirmation survives operator screen reloads and can be polled by ID.
// All methods are safe for concurrent use.
type Confirmation struct {
	mu sync.Mutex

	id         uuid.UUID
	sessionID  uuid.UUID
	childID    uuid.UUID
	eventID    uuid.UUID
	dispatchID uuid.UUID
	state      ConfirmationState
	closesAt   time.Time
	createdAt  time.Time
}

// NewConfirmation creates an instance in the Submitted state.
func NewConfirmation(sessionID, childID uuid.UUID) *Confirmation {
	return &Confirmation{
		id:        uuid.New(),
		sessionID: sessionID,
		childID:   childID,
		state:     ConfirmationSubmitted,
		createdAt: time.Now(),
	}
}

// ID returns the confirmation's identifier.
func (c *Confirmation) ID() uuid.UUID { return c.id }

// SessionID returns the owning scan session.
func (c *Confirmation) SessionID() uuid.UUID { return c.sessionID }

// ChildID returns the scanned child.
func (c *Confirmation) ChildID() uuid.UUID { return c.childID }

// State returns the current lifecycle state.
func (c *Confirmation) State() ConfirmationState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// EventID returns the persisted location event, zero until resolved.
func (c *Confirmation) EventID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.eventID
}

// DispatchID returns the guardian dispatch, zero until one exists.
func (c *Confirmation) DispatchID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dispatchID
}

// ClosesAt returns the auto-close deadline, zero until armed.
func (c *Confirmation) ClosesAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closesAt
}

// MarkLocationResolved records the persisted event. The transition is ignored
// once the confirmation is closed.
func (c *Confirmation) MarkLocationResolved(eventID uuid.UUID) bool {
	return c.transition(ConfirmationLocationResolved, func() {
		c.eventID = eventID
	}, ConfirmationSubmitted)
}

// MarkNotificationPending records that a dispatch was created and is in flight.
func (c *Confirmation) MarkNotificationPending(dispatchID uuid.UUID) bool {
	return c.transition(ConfirmationNotificationPending, func() {
		c.dispatchID = dispatchID
	}, ConfirmationLocationResolved)
}

// MarkNotificationSent records delivery success.
func (c *Confirmation) MarkNotificationSent() bool {
	return c.transition(ConfirmationNotificationSent, nil, ConfirmationNotificationPending)
}

// MarkNotificationFailed records terminal delivery failure after the retry
// ceiling was exhausted. The failure stays operator-visible until closed.
func (c *Confirmation) MarkNotificationFailed() bool {
	return c.transition(ConfirmationNotificationFailed, nil, ConfirmationNotificationPending)
}

// ArmClose sets the auto-close deadline. Calling it again replaces the deadline.
func (c *Confirmation) ArmClose(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ConfirmationClosed {
		return
	}
	c.closesAt = at
}

// Close moves the confirmation to the absorbing Closed state. It reports
// whether this call performed the close. Closing an already-closed instance
// is a no-op.
func (c *Confirmation) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ConfirmationClosed {
		return false
	}
	c.state = ConfirmationClosed

	return true
}

// transition applies the target state when the current state is one of the
// allowed sources. Closed absorbs everything.
func (c *Confirmation) transition(to ConfirmationState, apply func(), from ...ConfirmationState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ConfirmationClosed {
		return false
	}
	allowed := false
	for _, f := range from {
		if c.state == f {
			allowed = true

			break
		}
	}
	if !allowed {
		return false
	}

	if apply != nil {
		apply()
	}
	c.state = to

	return true
}
