package policies

import "context"

// Event describes a state change worth telling a user about. The delivery
// channel (email, SMS) is the collaborator's concern, not ours.
type Event struct {
	Kind        string         `json:"kind"`
	RecipientID string         `json:"recipient_id"`
	Subject     string         `json:"subject"`
	Data        map[string]any `json:"data,omitempty"`
}

// Notification event kinds dispatched by the services.
const (
	EventBookingRequested  = "booking.requested"
	EventBookingApproved   = "booking.approved"
	EventBookingRejected   = "booking.rejected"
	EventBookingCancelled  = "booking.cancelled"
	EventDisputeOpened     = "booking.dispute_opened"
	EventDisputeUpdated    = "booking.dispute_updated"
	EventBillboardReviewed = "billboard.reviewed"
	EventComplaintUpdated  = "complaint.updated"
)

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoopNotifier keeps the services functional when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }

var _ Notifier = NoopNotifier{}
