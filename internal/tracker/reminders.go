package tracker

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// ReminderDraft is the input for a reminder created from the reminders view.
type ReminderDraft struct {
	ItemID             string    `json:"item_id"`
	ExpiryDate         time.Time `json:"expiry_date"`
	ReminderDaysBefore int       `json:"reminder_days_before"`
}

// ReminderView pairs a reminder with its status on a given day.
type ReminderView struct {
	models.Reminder
	Status          models.ReminderStatus `json:"status"`
	DaysUntilExpiry int                   `json:"days_until_expiry"`
}

// ReminderStore mirrors the owner's expiry reminders. Callers reload it after
// mutating; item mutations do not touch it.
type ReminderStore struct {
	gw      ReminderGateway
	ownerID string
	logger  *log.Logger

	mu        sync.RWMutex
	reminders []models.Reminder
}

func NewReminderStore(gw ReminderGateway, ownerID string, logger *log.Logger) *ReminderStore {
	if logger == nil {
		logger = log.Default()
	}
	return &ReminderStore{gw: gw, ownerID: ownerID, logger: logger}
}

// Load replaces the reminders with the gateway's, soonest expiry first.
func (r *ReminderStore) Load(ctx context.Context) error {
	list, err := r.gw.ListReminders(ctx, r.ownerID)
	if err != nil {
		r.logger.Printf("reminders: load for %s failed: %v", r.ownerID, err)
		return gatewayErr("load reminders", err)
	}
	r.mu.Lock()
	r.reminders = list
	r.mu.Unlock()
	return nil
}

func (r *ReminderStore) Reminders() []models.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Reminder, len(r.reminders))
	copy(out, r.reminders)
	return out
}

// Create validates and inserts a reminder. The store is not reloaded.
func (r *ReminderStore) Create(ctx context.Context, d ReminderDraft) (models.Reminder, error) {
	if strings.TrimSpace(d.ItemID) == "" {
		return models.Reminder{}, invalid("item_id", "item is required")
	}
	if d.ExpiryDate.IsZero() {
		return models.Reminder{}, invalid("expiry_date", "expiry date is required")
	}
	if d.ReminderDaysBefore == 0 {
		d.ReminderDaysBefore = DefaultReminderDaysBefore
	}
	if d.ReminderDaysBefore < 1 {
		return models.Reminder{}, invalid("reminder_days_before", "must be at least 1")
	}
	out, err := r.gw.InsertReminder(ctx, models.NewReminder{
		OwnerID:            r.ownerID,
		ItemID:             d.ItemID,
		ExpiryDate:         d.ExpiryDate,
		ReminderDaysBefore: d.ReminderDaysBefore,
		IsActive:           true,
	})
	if err != nil {
		r.logger.Printf("reminders: create for %s failed: %v", d.ItemID, err)
		return models.Reminder{}, gatewayErr("create reminder", err)
	}
	return out, nil
}

// SetActive toggles a reminder. The store is not reloaded.
func (r *ReminderStore) SetActive(ctx context.Context, id string, active bool) (models.Reminder, error) {
	out, err := r.gw.SetReminderActive(ctx, r.ownerID, id, active)
	if err != nil {
		r.logger.Printf("reminders: toggle %s failed: %v", id, err)
		return models.Reminder{}, gatewayErr("update reminder", err)
	}
	return out, nil
}

// Delete removes a reminder. The store is not reloaded.
func (r *ReminderStore) Delete(ctx context.Context, id string) error {
	if err := r.gw.DeleteReminder(ctx, r.ownerID, id); err != nil {
		r.logger.Printf("reminders: delete %s failed: %v", id, err)
		return gatewayErr("delete reminder", err)
	}
	return nil
}

// Status returns every loaded reminder with its status on now.
func (r *ReminderStore) Status(now time.Time) []ReminderView {
	return r.view(now, func(models.Reminder) bool { return true })
}

// Due returns the active reminders whose window is open on now.
func (r *ReminderStore) Due(now time.Time) []ReminderView {
	return r.view(now, func(m models.Reminder) bool { return m.IsDue(now) })
}

// Expired returns the reminders past their expiry date, active or not.
func (r *ReminderStore) Expired(now time.Time) []ReminderView {
	return r.view(now, func(m models.Reminder) bool { return m.IsExpired(now) })
}

func (r *ReminderStore) view(now time.Time, keep func(models.Reminder) bool) []ReminderView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []ReminderView{}
	for _, m := range r.reminders {
		if keep(m) {
			out = append(out, ReminderView{Reminder: m, Status: m.Status(now), DaysUntilExpiry: m.DaysUntilExpiry(now)})
		}
	}
	return out
}
