package models

import "time"

// ReminderStatus is the derived state of a reminder on a given day.
type ReminderStatus string

const (
	ReminderPending  ReminderStatus = "pending"
	ReminderDue      ReminderStatus = "due"
	ReminderExpired  ReminderStatus = "expired"
	ReminderInactive ReminderStatus = "inactive"
)

// Reminder tracks the expiry of exactly one item.
type Reminder struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	ItemID             string    `json:"item_id"`
	ExpiryDate         time.Time `json:"expiry_date"`
	ReminderDaysBefore int       `json:"reminder_days_before"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewReminder is the row inserted for a reminder.
type NewReminder struct {
	OwnerID            string
	ItemID             string
	ExpiryDate         time.Time
	ReminderDaysBefore int
	IsActive           bool
}

// DaysUntilExpiry counts calendar days from now's date to the expiry date.
// Negative once the expiry date has passed.
func (r Reminder) DaysUntilExpiry(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiry := time.Date(r.ExpiryDate.Year(), r.ExpiryDate.Month(), r.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

// IsDue reports whether the reminder window is open and the reminder active.
func (r Reminder) IsDue(now time.Time) bool {
	d := r.DaysUntilExpiry(now)
	return r.IsActive && d >= 0 && d <= r.ReminderDaysBefore
}

// IsExpired reports whether the expiry date has passed, active or not.
func (r Reminder) IsExpired(now time.Time) bool {
	return r.DaysUntilExpiry(now) < 0
}

// Status folds IsExpired and IsDue into a single label; expired wins.
func (r Reminder) Status(now time.Time) ReminderStatus {
	switch {
	case r.IsExpired(now):
		return ReminderExpired
	case !r.IsActive:
		return ReminderInactive
	case r.IsDue(now):
		return ReminderDue
	default:
		return ReminderPending
	}
}
