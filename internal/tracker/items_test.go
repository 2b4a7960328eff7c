package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

func TestAddFlashlight(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Flashlight", Location: "Garage Shelf", CategoryID: "tools"})
	require.NoError(t, err)

	items := s.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, it.ID, items[0].ID)
	assert.Equal(t, "Flashlight", items[0].Name)
	assert.Equal(t, "Garage Shelf", items[0].Location)
	assert.Equal(t, "tools", items[0].Category.ID)
	assert.False(t, items[0].HasPIN)

	history := s.History.Entries()
	require.Len(t, history, 1)
	assert.Equal(t, models.ActionCreated, history[0].Action)
	assert.Nil(t, history[0].OldValues)
	assert.Equal(t, "Flashlight", history[0].NewValues["name"])
	require.NotNil(t, history[0].ItemID)
	assert.Equal(t, it.ID, *history[0].ItemID)

	assert.Equal(t, ViewHome, s.Router.Current())
}

func TestAddRejectsInvalidDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft ItemDraft
		field string
	}{
		{"empty name", ItemDraft{Location: "Shelf"}, "name"},
		{"blank name", ItemDraft{Name: "   ", Location: "Shelf"}, "name"},
		{"empty location", ItemDraft{Name: "Lamp"}, "location"},
		{"blank location", ItemDraft{Name: "Lamp", Location: "\t"}, "location"},
		{"pin required", ItemDraft{Name: "Ring", Location: "Box", HasPIN: true}, "pin"},
		{"pin too short", ItemDraft{Name: "Ring", Location: "Box", HasPIN: true, PIN: "123"}, "pin"},
		{"pin too long", ItemDraft{Name: "Ring", Location: "Box", HasPIN: true, PIN: "12345"}, "pin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gw := newTestSession(t)
			_, err := s.AddItem(context.Background(), tt.draft)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, gw.count("InsertItem"))
			assert.Zero(t, gw.count("InsertHistory"))
			assert.Zero(t, s.Items.Len())
		})
	}
}

func TestAddNormalizesDraft(t *testing.T) {
	s, _ := newTestSession(t)

	it, err := s.Items.Add(context.Background(), ItemDraft{
		Name:     "  Camera ",
		Location: "Closet",
		Tags:     []string{"travel", " photo", "travel", "", "photo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Camera", it.Name)
	assert.Equal(t, []string{"travel", "photo"}, it.Tags)
	assert.Equal(t, models.Categories[0], it.Category)
}

func TestAddPrependsNewest(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Items.Add(ctx, ItemDraft{Name: name, Location: "Shelf"})
		require.NoError(t, err)
	}

	var names []string
	for _, it := range s.Items.Items() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"third", "second", "first"}, names)
}

func TestAddGatewayFailureLeavesStoreUnchanged(t *testing.T) {
	s, gw := newTestSession(t)
	gw.failOn("InsertItem")

	_, err := s.AddItem(context.Background(), ItemDraft{Name: "Lamp", Location: "Desk"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
	assert.Zero(t, s.Items.Len())
	assert.Zero(t, gw.count("InsertHistory"))
}

func TestAddWithExpiryCreatesReminder(t *testing.T) {
	s, _ := newTestSession(t)
	expiry := time.Now().UTC().AddDate(0, 0, 3)

	it, err := s.AddItem(context.Background(), ItemDraft{Name: "Milk", Location: "Fridge", ExpiryDate: &expiry})
	require.NoError(t, err)

	reminders := s.Reminders.Reminders()
	require.Len(t, reminders, 1)
	assert.Equal(t, it.ID, reminders[0].ItemID)
	assert.Equal(t, DefaultReminderDaysBefore, reminders[0].ReminderDaysBefore)
	assert.True(t, reminders[0].IsActive)
	assert.Len(t, s.Reminders.Due(time.Now().UTC()), 1)
}

func TestAddKeepsItemWhenReminderFails(t *testing.T) {
	s, gw := newTestSession(t)
	gw.failOn("InsertReminder")
	expiry := time.Now().UTC().AddDate(0, 1, 0)

	it, err := s.AddItem(context.Background(), ItemDraft{Name: "Passport", Location: "Drawer", ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Items.Len())
	assert.Equal(t, 1, gw.count("InsertReminder"))
	assert.Empty(t, s.Reminders.Reminders())

	_, ok := s.Items.Get(it.ID)
	assert.True(t, ok)
}

func TestUpdateWithEmptyPINKeepsSecret(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)

	updated, err := s.UpdateItem(ctx, it.ID, ItemDraft{
		Name:        "Wall safe",
		Location:    "Office",
		Description: "behind the painting",
		HasPIN:      true,
		Tags:        []string{"valuable"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Wall safe", updated.Name)
	assert.Equal(t, "behind the painting", updated.Description)
	assert.Equal(t, []string{"valuable"}, updated.Tags)
	assert.Equal(t, "1234", updated.PINCode)

	stored, err := gw.Gateway.ListItems(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "1234", stored[0].PINCode)

	history := s.History.Entries()
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionUpdated, history[0].Action)
	assert.Equal(t, "Safe", history[0].OldValues["name"])
	assert.Equal(t, "Wall safe", history[0].NewValues["name"])
	assert.NotContains(t, history[0].NewValues, "pin_code")
	assert.Equal(t, ViewInventory, s.Router.Current())
}

func TestUpdateChangesPIN(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.Items.Add(ctx, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "1234"})
	require.NoError(t, err)

	_, _, err = s.Items.Update(ctx, it.ID, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "99"})
	assert.True(t, IsValidation(err))

	_, updated, err := s.Items.Update(ctx, it.ID, ItemDraft{Name: "Safe", Location: "Office", HasPIN: true, PIN: "4321"})
	require.NoError(t, err)
	assert.Equal(t, "4321", updated.PINCode)
}

func TestUpdateCannotEnablePINWithoutOne(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	it, err := s.Items.Add(ctx, ItemDraft{Name: "Box", Location: "Attic"})
	require.NoError(t, err)

	_, _, err = s.Items.Update(ctx, it.ID, ItemDraft{Name: "Box", Location: "Attic", HasPIN: true})
	assert.True(t, IsValidation(err))
	assert.Zero(t, gw.count("UpdateItem"))
}

func TestUpdateDisablingPINKeepsStoredValue(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.Items.Add(ctx, ItemDraft{Name: "Diary", Location: "Nightstand", HasPIN: true, PIN: "2468"})
	require.NoError(t, err)

	_, updated, err := s.Items.Update(ctx, it.ID, ItemDraft{Name: "Diary", Location: "Nightstand"})
	require.NoError(t, err)
	assert.False(t, updated.HasPIN)
	assert.Equal(t, "2468", updated.PINCode)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		it, err := s.Items.Add(ctx, ItemDraft{Name: name, Location: "Shelf"})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}

	_, _, err := s.Items.Update(ctx, ids[1], ItemDraft{Name: "b2", Location: "Shelf"})
	require.NoError(t, err)

	items := s.Items.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "b2", items[1].Name)
}

func TestUpdateLocationRecordsMove(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Drill", Location: "Garage"})
	require.NoError(t, err)
	_, err = s.UpdateItem(ctx, it.ID, ItemDraft{Name: "Drill", Location: "Basement"})
	require.NoError(t, err)

	history := s.History.Entries()
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionMoved, history[0].Action)
	assert.Equal(t, "Garage", history[0].OldValues["location"])
	assert.Equal(t, "Basement", history[0].NewValues["location"])
}

func TestUpdateGatewayFailureLeavesStoreUnchanged(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Drill", Location: "Garage"})
	require.NoError(t, err)
	gw.failOn("UpdateItem")

	_, err = s.UpdateItem(ctx, it.ID, ItemDraft{Name: "Hammer", Location: "Garage"})
	require.ErrorIs(t, err, ErrGateway)

	got, _ := s.Items.Get(it.ID)
	assert.Equal(t, "Drill", got.Name)
	assert.Len(t, s.History.Entries(), 1)
}

func TestUpdateUnknownItem(t *testing.T) {
	s, gw := newTestSession(t)

	_, err := s.UpdateItem(context.Background(), "missing", ItemDraft{Name: "x", Location: "y"})
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Zero(t, gw.count("UpdateItem"))
}

func TestUpdateItemDeletedElsewhere(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Lamp", Location: "Desk"})
	require.NoError(t, err)
	require.NoError(t, gw.Gateway.DeleteItem(ctx, testOwner, it.ID))

	_, err = s.UpdateItem(ctx, it.ID, ItemDraft{Name: "Lamp", Location: "Floor"})
	assert.ErrorIs(t, err, ErrGateway)
	got, ok := s.Items.Get(it.ID)
	require.True(t, ok)
	assert.Equal(t, "Desk", got.Location)
}

func TestRemoveItem(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	keep, err := s.AddItem(ctx, ItemDraft{Name: "Keep", Location: "Shelf"})
	require.NoError(t, err)
	gone, err := s.AddItem(ctx, ItemDraft{Name: "Gone", Location: "Bin", Tags: []string{"junk"}})
	require.NoError(t, err)

	removed, err := s.RemoveItem(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, gone.ID, removed.ID)

	items := s.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)

	var deleted []models.HistoryEntry
	for _, e := range s.History.Entries() {
		if e.Action == models.ActionDeleted {
			deleted = append(deleted, e)
		}
	}
	require.Len(t, deleted, 1)
	assert.Equal(t, "Gone", deleted[0].ItemName)
	assert.Equal(t, gone.ID, deleted[0].OldValues["id"])
	assert.Nil(t, deleted[0].NewValues)
	assert.Nil(t, deleted[0].ItemID)
	assert.Equal(t, ViewInventory, s.Router.Current())
}

func TestRemoveGatewayFailure(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	it, err := s.AddItem(ctx, ItemDraft{Name: "Lamp", Location: "Desk"})
	require.NoError(t, err)
	gw.failOn("DeleteItem")

	_, err = s.RemoveItem(ctx, it.ID)
	require.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, 1, s.Items.Len())
	assert.Len(t, s.History.Entries(), 1)
}

func TestLoadAllIsBestEffort(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	_, err := s.Items.Add(ctx, ItemDraft{Name: "Lamp", Location: "Desk", CategoryID: "no-such-category"})
	require.NoError(t, err)
	require.NoError(t, s.Items.LoadAll(ctx))
	require.Equal(t, 1, s.Items.Len())
	assert.Equal(t, models.Categories[0], s.Items.Items()[0].Category)

	gw.failOn("ListItems")
	err = s.Items.LoadAll(ctx)
	assert.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, 1, s.Items.Len())
}

func TestAssignGroupAndContainer(t *testing.T) {
	s, gw := newTestSession(t)
	ctx := context.Background()

	group, err := gw.InsertGroup(ctx, models.Group{OwnerID: testOwner, Name: "Camping"})
	require.NoError(t, err)
	box, err := gw.InsertContainer(ctx, models.Container{OwnerID: testOwner, Name: "Red box"})
	require.NoError(t, err)

	it, err := s.AddItem(ctx, ItemDraft{Name: "Tent", Location: "Garage"})
	require.NoError(t, err)

	_, err = s.AssignGroup(ctx, it.ID, &group.ID)
	require.NoError(t, err)
	_, err = s.AssignContainer(ctx, it.ID, &box.ID)
	require.NoError(t, err)

	assert.Len(t, s.Items.InGroup(group.ID), 1)
	assert.Len(t, s.Items.InContainer(box.ID), 1)
	history := s.History.Entries()
	require.Len(t, history, 3)
	assert.Equal(t, models.ActionMoved, history[0].Action)
	assert.Equal(t, models.ActionUpdated, history[1].Action)

	_, err = s.AssignGroup(ctx, it.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Items.InGroup(group.ID))
	got, _ := s.Items.Get(it.ID)
	assert.Nil(t, got.GroupID)
	require.NotNil(t, got.ContainerID)
}

func TestConcurrentAdds(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Items.Add(ctx, ItemDraft{Name: "widget", Location: "bin"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, s.Items.Len())
}
