package tracker

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// DefaultReminderDaysBefore is used when a draft carries an expiry date but
// no reminder window.
const DefaultReminderDaysBefore = 7

// ItemDraft is the user input for add and update.
// On update an empty PIN keeps the stored secret; GroupID and ContainerID are
// only read on add.
type ItemDraft struct {
	Name               string     `json:"name"`
	Location           string     `json:"location"`
	Description        string     `json:"description"`
	Notes              string     `json:"notes"`
	CategoryID         string     `json:"category_id"`
	Tags               []string   `json:"tags"`
	ItemPhoto          *string    `json:"item_photo"`
	LocationPhoto      *string    `json:"location_photo"`
	Starred            bool       `json:"starred"`
	HasPIN             bool       `json:"has_pin"`
	PIN                string     `json:"pin"`
	GroupID            *string    `json:"group_id"`
	ContainerID        *string    `json:"container_id"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	ReminderDaysBefore int        `json:"reminder_days_before"`
}

// Validate checks the fields required on both add and update.
func (d ItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "name is required")
	}
	if strings.TrimSpace(d.Location) == "" {
		return invalid("location", "location is required")
	}
	if d.PIN != "" && !validPIN(d.PIN) {
		return invalid("pin", "PIN must be exactly 4 digits")
	}
	if d.ReminderDaysBefore < 0 {
		return invalid("reminder_days_before", "must be at least 1")
	}
	return nil
}

func (d ItemDraft) tags() []string {
	out := []string{}
	for _, t := range d.Tags {
		out = models.AppendTag(out, strings.TrimSpace(t))
	}
	return out
}

func (d ItemDraft) categoryID() string {
	if d.CategoryID == "" {
		return models.Categories[0].ID
	}
	return d.CategoryID
}

// ItemStore holds the owner's enriched items, newest first.
// Mutations go to the gateway first and are merged locally on success.
// Concurrent mutations of one item are not serialized: whichever gateway
// response lands last is what the list shows.
type ItemStore struct {
	gw        ItemGateway
	reminders ReminderGateway
	ownerID   string
	hashPINs  bool
	logger    *log.Logger

	mu    sync.RWMutex
	items []models.Item
}

// NewItemStore creates an empty store for ownerID. reminders may be nil, in
// which case expiry dates on add are ignored.
func NewItemStore(gw ItemGateway, reminders ReminderGateway, ownerID string, logger *log.Logger) *ItemStore {
	if logger == nil {
		logger = log.Default()
	}
	return &ItemStore{gw: gw, reminders: reminders, ownerID: ownerID, logger: logger}
}

// HashPINs makes new PINs be written as bcrypt hashes.
func (s *ItemStore) HashPINs(on bool) {
	s.hashPINs = on
}

func enrich(it models.Item) models.Item {
	it.Category = models.ResolveCategory(it.CategoryID)
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return it
}

// LoadAll replaces the list with the owner's items. On gateway failure the
// error is logged and the list stays as it was.
func (s *ItemStore) LoadAll(ctx context.Context) error {
	items, err := s.gw.ListItems(ctx, s.ownerID)
	if err != nil {
		s.logger.Printf("items: load for %s failed: %v", s.ownerID, err)
		return gatewayErr("load items", err)
	}
	for i := range items {
		items[i] = enrich(items[i])
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current list.
func (s *ItemStore) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of loaded items.
func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the loaded item with the given id.
func (s *ItemStore) Get(id string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

// Add validates the draft, inserts it and prepends the result. When the draft
// carries an expiry date a reminder is created as well; a failed reminder is
// logged and does not undo the item.
func (s *ItemStore) Add(ctx context.Context, d ItemDraft) (models.Item, error) {
	if err := d.Validate(); err != nil {
		return models.Item{}, err
	}
	if d.HasPIN && !validPIN(d.PIN) {
		return models.Item{}, invalid("pin", "PIN must be exactly 4 digits")
	}

	in := models.NewItem{
		OwnerID:       s.ownerID,
		Name:          strings.TrimSpace(d.Name),
		Location:      strings.TrimSpace(d.Location),
		Description:   d.Description,
		Notes:         d.Notes,
		CategoryID:    d.categoryID(),
		Tags:          d.tags(),
		ItemPhoto:     d.ItemPhoto,
		LocationPhoto: d.LocationPhoto,
		Starred:       d.Starred,
		HasPIN:        d.HasPIN,
		GroupID:       d.GroupID,
		ContainerID:   d.ContainerID,
	}
	if d.PIN != "" {
		pin, err := sealPIN(d.PIN, s.hashPINs)
		if err != nil {
			return models.Item{}, err
		}
		in.PINCode = pin
	}

	created, err := s.gw.InsertItem(ctx, in)
	if err != nil {
		s.logger.Printf("items: add %q failed: %v", in.Name, err)
		return models.Item{}, gatewayErr("add item", err)
	}
	created = enrich(created)

	s.mu.Lock()
	s.items = append([]models.Item{created}, s.items...)
	s.mu.Unlock()

	if d.ExpiryDate != nil && s.reminders != nil {
		days := d.ReminderDaysBefore
		if days == 0 {
			days = DefaultReminderDaysBefore
		}
		_, err := s.reminders.InsertReminder(ctx, models.NewReminder{
			OwnerID:            s.ownerID,
			ItemID:             created.ID,
			ExpiryDate:         *d.ExpiryDate,
			ReminderDaysBefore: days,
			IsActive:           true,
		})
		if err != nil {
			s.logger.Printf("items: reminder for %s not created: %v", created.ID, err)
		}
	}
	return created, nil
}

// Update applies the draft to a loaded item and replaces it in place.
// It returns the item before and after the change.
func (s *ItemStore) Update(ctx context.Context, id string, d ItemDraft) (old, updated models.Item, err error) {
	if err := d.Validate(); err != nil {
		return old, updated, err
	}
	old, ok := s.Get(id)
	if !ok {
		return old, updated, ErrUnknownItem
	}
	if d.HasPIN && d.PIN == "" && old.PINCode == "" {
		return old, updated, invalid("pin", "PIN must be exactly 4 digits")
	}

	name := strings.TrimSpace(d.Name)
	location := strings.TrimSpace(d.Location)
	category := d.categoryID()
	patch := models.ItemPatch{
		Name:          &name,
		Location:      &location,
		Description:   &d.Description,
		Notes:         &d.Notes,
		CategoryID:    &category,
		Tags:          d.tags(),
		TagsSet:       true,
		ItemPhoto:     d.ItemPhoto,
		LocationPhoto: d.LocationPhoto,
		Starred:       &d.Starred,
		HasPIN:        &d.HasPIN,
	}
	if d.PIN != "" {
		pin, err := sealPIN(d.PIN, s.hashPINs)
		if err != nil {
			return old, updated, err
		}
		patch.PINCode = &pin
	}

	updated, err = s.patch(ctx, id, patch)
	return old, updated, err
}

// AssignGroup sets or, with a nil groupID, clears the item's group.
func (s *ItemStore) AssignGroup(ctx context.Context, id string, groupID *string) (old, updated models.Item, err error) {
	old, ok := s.Get(id)
	if !ok {
		return old, updated, ErrUnknownItem
	}
	updated, err = s.patch(ctx, id, models.ItemPatch{GroupID: &groupID})
	return old, updated, err
}

// AssignContainer sets or, with a nil containerID, clears the item's container.
func (s *ItemStore) AssignContainer(ctx context.Context, id string, containerID *string) (old, updated models.Item, err error) {
	old, ok := s.Get(id)
	if !ok {
		return old, updated, ErrUnknownItem
	}
	updated, err = s.patch(ctx, id, models.ItemPatch{ContainerID: &containerID})
	return old, updated, err
}

func (s *ItemStore) patch(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	updated, err := s.gw.UpdateItem(ctx, s.ownerID, id, patch)
	if err != nil {
		s.logger.Printf("items: update %s failed: %v", id, err)
		return models.Item{}, gatewayErr("update item", err)
	}
	updated = enrich(updated)

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Remove deletes a loaded item and drops it from the list. It returns the
// removed item.
func (s *ItemStore) Remove(ctx context.Context, id string) (models.Item, error) {
	old, ok := s.Get(id)
	if !ok {
		return old, ErrUnknownItem
	}
	if err := s.gw.DeleteItem(ctx, s.ownerID, id); err != nil {
		s.logger.Printf("items: delete %s failed: %v", id, err)
		return models.Item{}, gatewayErr("delete item", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return old, nil
}

// InGroup returns the loaded items whose group is groupID.
func (s *ItemStore) InGroup(groupID string) []models.Item {
	return s.where(func(it models.Item) bool {
		return it.GroupID != nil && *it.GroupID == groupID
	})
}

// InContainer returns the loaded items placed directly in containerID.
func (s *ItemStore) InContainer(containerID string) []models.Item {
	return s.where(func(it models.Item) bool {
		return it.ContainerID != nil && *it.ContainerID == containerID
	})
}

func (s *ItemStore) where(keep func(models.Item) bool) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Item{}
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
