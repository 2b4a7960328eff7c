package gateway

import (
	"context"
	"fmt"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

const reminderColumns = `id, owner_id, item_id, expiry_date, reminder_days_before, is_active, created_at`

func scanReminder(row rowScanner) (models.Reminder, error) {
	var r models.Reminder
	err := row.Scan(&r.ID, &r.OwnerID, &r.ItemID, &r.ExpiryDate, &r.ReminderDaysBefore, &r.IsActive, &r.CreatedAt)
	return r, err
}

// ListReminders returns the owner's reminders, soonest expiry first.
func (g *Gateway) ListReminders(ctx context.Context, ownerID string) (reminders []models.Reminder, err error) {
	defer g.track("item_reminders", "select", &err)()

	rows, err := g.db.QueryContext(ctx, g.rebind(`
		SELECT `+reminderColumns+` FROM item_reminders
		WHERE owner_id = ? ORDER BY expiry_date ASC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", classify(err))
	}
	defer rows.Close()

	reminders = []models.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// InsertReminder stores a reminder for one item.
func (g *Gateway) InsertReminder(ctx context.Context, in models.NewReminder) (out models.Reminder, err error) {
	defer g.track("item_reminders", "insert", &err)()

	id := newID()
	now := g.now()
	expiry := dateOnly(in.ExpiryDate)
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO item_reminders (id, owner_id, item_id, expiry_date, reminder_days_before, is_active, created_at)
		VALUES (?,?,?,?,?,?,?)`),
		id, in.OwnerID, in.ItemID, expiry, in.ReminderDaysBefore, in.IsActive, now,
	)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("creating reminder: %w", classify(err))
	}
	return models.Reminder{
		ID:                 id,
		OwnerID:            in.OwnerID,
		ItemID:             in.ItemID,
		ExpiryDate:         expiry,
		ReminderDaysBefore: in.ReminderDaysBefore,
		IsActive:           in.IsActive,
		CreatedAt:          now,
	}, nil
}

// SetReminderActive toggles a reminder and returns the stored row.
func (g *Gateway) SetReminderActive(ctx context.Context, ownerID, id string, active bool) (out models.Reminder, err error) {
	defer g.track("item_reminders", "update", &err)()

	res, err := g.db.ExecContext(ctx, g.rebind(`UPDATE item_reminders SET is_active = ? WHERE id = ? AND owner_id = ?`), active, id, ownerID)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("updating reminder %s: %w", id, classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Reminder{}, fmt.Errorf("updating reminder %s: %w", id, ErrNotFound)
	}

	out, err = scanReminder(g.db.QueryRowContext(ctx,
		g.rebind(`SELECT `+reminderColumns+` FROM item_reminders WHERE id = ? AND owner_id = ?`), id, ownerID))
	if err != nil {
		return models.Reminder{}, fmt.Errorf("reading reminder %s: %w", id, classify(err))
	}
	return out, nil
}

// DeleteReminder removes the owner's reminder.
func (g *Gateway) DeleteReminder(ctx context.Context, ownerID, id string) (err error) {
	defer g.track("item_reminders", "delete", &err)()

	res, err := g.db.ExecContext(ctx, g.rebind(`DELETE FROM item_reminders WHERE id = ? AND owner_id = ?`), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting reminder %s: %w", id, classify(err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deleting reminder %s: %w", id, ErrNotFound)
	}
	return nil
}
