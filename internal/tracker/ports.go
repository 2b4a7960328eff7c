package tracker

import (
	"context"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// ItemGateway is the items table contract.
type ItemGateway interface {
	ListItems(ctx context.Context, ownerID string) ([]models.Item, error)
	InsertItem(ctx context.Context, in models.NewItem) (models.Item, error)
	UpdateItem(ctx context.Context, ownerID, id string, patch models.ItemPatch) (models.Item, error)
	DeleteItem(ctx context.Context, ownerID, id string) error
}

// HistoryGateway is the item_history table contract.
type HistoryGateway interface {
	ListHistory(ctx context.Context, ownerID string) ([]models.HistoryEntry, error)
	InsertHistory(ctx context.Context, in models.NewHistoryEntry) (models.HistoryEntry, error)
}

// ReminderGateway is the item_reminders table contract.
type ReminderGateway interface {
	ListReminders(ctx context.Context, ownerID string) ([]models.Reminder, error)
	InsertReminder(ctx context.Context, in models.NewReminder) (models.Reminder, error)
	SetReminderActive(ctx context.Context, ownerID, id string, active bool) (models.Reminder, error)
	DeleteReminder(ctx context.Context, ownerID, id string) error
}

// CollectionGateway reads the collaborator-owned groups, containers and maps.
type CollectionGateway interface {
	ListGroups(ctx context.Context, ownerID string) ([]models.Group, error)
	ListContainers(ctx context.Context, ownerID string) ([]models.Container, error)
	ListVisualMaps(ctx context.Context, ownerID string) ([]models.VisualMap, error)
}

// Gateway is everything a Session needs from the backend.
type Gateway interface {
	ItemGateway
	HistoryGateway
	ReminderGateway
	CollectionGateway
}
