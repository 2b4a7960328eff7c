package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCategory(t *testing.T) {
	assert.Equal(t, "tools", ResolveCategory("tools").ID)
	assert.Equal(t, Categories[0], ResolveCategory("spaceships"))
	assert.Equal(t, Categories[0], ResolveCategory(""))
	assert.Len(t, Categories, 6)
}

func TestAppendTag(t *testing.T) {
	tags := []string{}
	tags = AppendTag(tags, "red")
	tags = AppendTag(tags, "blue")
	tags = AppendTag(tags, "red")
	tags = AppendTag(tags, "")
	assert.Equal(t, []string{"red", "blue"}, tags)
}

func TestReminderStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time { return time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		r       Reminder
		due     bool
		expired bool
		status  ReminderStatus
	}{
		{"inside window", Reminder{ExpiryDate: day(3), ReminderDaysBefore: 7, IsActive: true}, true, false, ReminderDue},
		{"on expiry day", Reminder{ExpiryDate: day(0), ReminderDaysBefore: 1, IsActive: true}, true, false, ReminderDue},
		{"window edge", Reminder{ExpiryDate: day(7), ReminderDaysBefore: 7, IsActive: true}, true, false, ReminderDue},
		{"outside window", Reminder{ExpiryDate: day(8), ReminderDaysBefore: 7, IsActive: true}, false, false, ReminderPending},
		{"inactive in window", Reminder{ExpiryDate: day(2), ReminderDaysBefore: 7, IsActive: false}, false, false, ReminderInactive},
		{"expired active", Reminder{ExpiryDate: day(-1), ReminderDaysBefore: 7, IsActive: true}, false, true, ReminderExpired},
		{"expired inactive", Reminder{ExpiryDate: day(-5), ReminderDaysBefore: 7, IsActive: false}, false, true, ReminderExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, tt.r.IsDue(now))
			assert.Equal(t, tt.expired, tt.r.IsExpired(now))
			assert.Equal(t, tt.status, tt.r.Status(now))
		})
	}
}

func TestHistoryEntryConsistent(t *testing.T) {
	snap := JSONB{"name": "Flashlight"}
	assert.True(t, NewHistoryEntry{Action: ActionCreated, NewValues: snap}.Consistent())
	assert.False(t, NewHistoryEntry{Action: ActionCreated, OldValues: snap, NewValues: snap}.Consistent())
	assert.True(t, NewHistoryEntry{Action: ActionDeleted, OldValues: snap}.Consistent())
	assert.True(t, NewHistoryEntry{Action: ActionMoved, OldValues: snap, NewValues: snap}.Consistent())
	assert.False(t, NewHistoryEntry{Action: ActionUpdated, NewValues: snap}.Consistent())
	assert.False(t, NewHistoryEntry{Action: "renamed", NewValues: snap}.Consistent())
}

func TestSnapshotOmitsPIN(t *testing.T) {
	it := Item{ID: "a", Name: "Safe", HasPIN: true, PINCode: "1234", Tags: []string{"x"}}
	snap := it.Snapshot()
	_, hasPin := snap["pin_code"]
	assert.False(t, hasPin)
	assert.Equal(t, true, snap["has_pin"])
}

func TestJSONBScan(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan(`{"name":"Flashlight"}`))
	assert.Equal(t, "Flashlight", j["name"])

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	v, err := JSONB(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMarkersScan(t *testing.T) {
	var m Markers
	require.NoError(t, m.Scan([]byte(`[{"item_id":"a","x":0.5,"y":0.25}]`)))
	require.Len(t, m, 1)
	assert.Equal(t, 0.25, m[0].Y)
}
