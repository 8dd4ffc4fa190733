package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MaxSyncAttempts bounds queue replay: one initial attempt plus two
// retries, after which the action is dropped.
const MaxSyncAttempts = 3

// ActionType is the mutation kind carried by a queued action.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// Resource names the remote resource a queued action targets.
type Resource string

const (
	ResourceSession   Resource = "session"
	ResourceWeight    Resource = "weight"
	ResourceMetric    Resource = "metric"
	ResourceProfile   Resource = "profile"
	ResourceScheduled Resource = "scheduled"
)

// QueuedAction is one buffered mutation awaiting replay. The queue is a
// single linear FIFO list; actions are never reordered across resources.
type QueuedAction struct {
	ID        string
	Type      ActionType
	Resource  Resource
	TargetID  string
	Data      json.RawMessage
	Timestamp time.Time
	Retries   int
}

// NewQueuedAction builds a queue entry with the payload serialized in
// the target resource's create/update shape.
func NewQueuedAction(actionType ActionType, resource Resource, targetID string, payload any, now time.Time) (*QueuedAction, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode queued payload: %w", err)
		}
		data = raw
	}
	return &QueuedAction{
		ID:        generateID(),
		Type:      actionType,
		Resource:  resource,
		TargetID:  targetID,
		Data:      data,
		Timestamp: now,
		Retries:   0,
	}, nil
}

// Exhausted reports whether the action has used up its attempts.
func (a *QueuedAction) Exhausted() bool {
	return a.Retries >= MaxSyncAttempts
}

// TempID generates the provisional client id used for resources created
// while offline, replaced by the server-assigned id on replay.
func TempID(now time.Time) string {
	return fmt.Sprintf("temp-%d", now.UnixMilli())
}

// IsTempID reports whether an id is a provisional offline id.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, "temp-")
}
