package events

import (
	"context"
	"time"
)

// Topics, prefixed with the configured topic prefix on the wire
const (
	TopicMembership  = "community.membership"
	TopicApplication = "job.application"
	TopicPost        = "community.post"
)

// Event types
const (
	MemberJoined        = "member_joined"
	MemberLeft          = "member_left"
	ApplicationCreated  = "application_created"
	ApplicationWithdraw = "application_withdrawn"
	ApplicationStatus   = "application_status_changed"
	PostCreated         = "post_created"
	CommentAdded        = "comment_added"
)

// Envelope is the JSON body written for every event
type Envelope struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events after a state change has committed.
// Publishing is best effort: it never fails the request that triggered it.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, data interface{})
	Close() error
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, string, interface{}) {}
func (NopPublisher) Close() error { return nil }
