package events

import "time"

const PtoRequestLifecycleTopic = "pto.request.lifecycle.v1"

const (
	EventTypePtoRequestCreated  = "pto_request.created"
	EventTypePtoRequestAdvanced = "pto_request.advanced"
	EventTypePtoRequestDecided  = "pto_request.decided"
)

// PtoRequestLifecycleEvent is published through the outbox whenever a
// request is created, advances to the next approver, or reaches a
// terminal status. CurrentApproverID is empty for terminal events.
type PtoRequestLifecycleEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	OrganizationID    string    `json:"organization_id"`
	RequesterID       string    `json:"requester_id"`
	CurrentApproverID string    `json:"current_approver_id,omitempty"`
	Status            string    `json:"status"`
	OccurredAt        time.Time `json:"occurred_at"`
}
