package models

import "time"

// HistoryAction tags an audit entry.
type HistoryAction string

const (
	ActionCreated HistoryAction = "created"
	ActionUpdated HistoryAction = "updated"
	ActionDeleted HistoryAction = "deleted"
	ActionMoved   HistoryAction = "moved"
)

// IsValid checks if the action is one of the known tags
func (a HistoryAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionMoved:
		return true
	}
	return false
}

// HistoryEntry is an append-only audit record of an item mutation.
type HistoryEntry struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	ItemID    *string       `json:"item_id"`
	ItemName  string        `json:"item_name"`
	Action    HistoryAction `json:"action"`
	OldValues JSONB         `json:"old_values"`
	NewValues JSONB         `json:"new_values"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewHistoryEntry is the row inserted for an audit record.
type NewHistoryEntry struct {
	OwnerID   string
	ItemID    *string
	ItemName  string
	Action    HistoryAction
	OldValues JSONB
	NewValues JSONB
}

// Consistent checks the snapshot shape against the action:
// created has no old values, deleted has no new values, the rest carry both.
func (e NewHistoryEntry) Consistent() bool {
	switch e.Action {
	case ActionCreated:
		return e.OldValues == nil && e.NewValues != nil
	case ActionDeleted:
		return e.OldValues != nil && e.NewValues == nil
	case ActionUpdated, ActionMoved:
		return e.OldValues != nil && e.NewValues != nil
	}
	return false
}
