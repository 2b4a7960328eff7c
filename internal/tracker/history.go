package tracker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// HistoryStore mirrors the owner's audit log. It is never appended to
// locally: every Record is followed by a full reload.
type HistoryStore struct {
	gw      HistoryGateway
	ownerID string
	logger  *log.Logger

	mu      sync.RWMutex
	entries []models.HistoryEntry
}

func NewHistoryStore(gw HistoryGateway, ownerID string, logger *log.Logger) *HistoryStore {
	if logger == nil {
		logger = log.Default()
	}
	return &HistoryStore{gw: gw, ownerID: ownerID, logger: logger}
}

// Load replaces the entries with the gateway's, newest first.
func (h *HistoryStore) Load(ctx context.Context) error {
	entries, err := h.gw.ListHistory(ctx, h.ownerID)
	if err != nil {
		h.logger.Printf("history: load for %s failed: %v", h.ownerID, err)
		return gatewayErr("load history", err)
	}
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

// Entries returns a copy of the loaded entries.
func (h *HistoryStore) Entries() []models.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Record inserts one audit entry and reloads.
func (h *HistoryStore) Record(ctx context.Context, e models.NewHistoryEntry) error {
	e.OwnerID = h.ownerID
	if !e.Consistent() {
		return errors.New("history: snapshots do not match action " + string(e.Action))
	}
	if _, err := h.gw.InsertHistory(ctx, e); err != nil {
		h.logger.Printf("history: record %s of %q failed: %v", e.Action, e.ItemName, err)
		return gatewayErr("record history", err)
	}
	return h.Load(ctx)
}

// Created builds the audit entry for an added item.
func Created(it models.Item) models.NewHistoryEntry {
	id := it.ID
	return models.NewHistoryEntry{
		ItemID:    &id,
		ItemName:  it.Name,
		Action:    models.ActionCreated,
		NewValues: it.Snapshot(),
	}
}

// Changed builds the audit entry for an edit. It records moved when the location or container changed, updated
// otherwise.
func Changed(old, updated models.Item) models.NewHistoryEntry {
	action := models.ActionUpdated
	if old.Location != updated.Location || !samePtr(old.ContainerID, updated.ContainerID) {
		action = models.ActionMoved
	}
	id := updated.ID
	return models.NewHistoryEntry{
		ItemID:    &id,
		ItemName:  updated.Name,
		Action:    action,
		OldValues: old.Snapshot(),
		NewValues: updated.Snapshot(),
	}
}

// Deleted builds the audit entry for a removed item. ItemID is nil; the row it pointed at is gone. The id is kept
// in the old values.
func Deleted(old models.Item) models.NewHistoryEntry {
	return models.NewHistoryEntry{
		ItemName:  old.Name,
		Action:    models.ActionDeleted,
		OldValues: old.Snapshot(),
	}
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
