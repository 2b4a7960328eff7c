package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// ListHistory returns the owner's audit entries, newest first.
func (g *Gateway) ListHistory(ctx context.Context, ownerID string) (entries []models.HistoryEntry, err error) {
	defer g.track("item_history", "select", &err)()

	rows, err := g.db.QueryContext(ctx, g.rebind(`
		SELECT id, owner_id, item_id, item_name, action, old_values, new_values, created_at
		FROM item_history WHERE owner_id = ? ORDER BY created_at DESC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", classify(err))
	}
	defer rows.Close()

	entries = []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var itemID sql.NullString
		var action string
		if err := rows.Scan(&e.ID, &e.OwnerID, &itemID, &e.ItemName, &action, &e.OldValues, &e.NewValues, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.ItemID = nullString(itemID)
		e.Action = models.HistoryAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertHistory appends an audit entry.
func (g *Gateway) InsertHistory(ctx context.Context, in models.NewHistoryEntry) (out models.HistoryEntry, err error) {
	defer g.track("item_history", "insert", &err)()

	if !in.Action.IsValid() {
		return models.HistoryEntry{}, fmt.Errorf("invalid history action %q", in.Action)
	}
	id := newID()
	now := g.now()
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO item_history (id, owner_id, item_id, item_name, action, old_values, new_values, created_at)
		VALUES (?,?,?,?,?,?,?,?)`),
		id, in.OwnerID, strPtrValue(in.ItemID), in.ItemName, string(in.Action), in.OldValues, in.NewValues, now,
	)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("creating history entry: %w", classify(err))
	}
	return models.HistoryEntry{
		ID:        id,
		OwnerID:   in.OwnerID,
		ItemID:    in.ItemID,
		ItemName:  in.ItemName,
		Action:    in.Action,
		OldValues: in.OldValues,
		NewValues: in.NewValues,
		CreatedAt: now,
	}, nil
}
