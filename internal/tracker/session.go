// Package tracker holds the in-memory state of a signed-in owner: the item,
// history and reminder stores, the PIN gate and the view router. Stores are
// loaded from the persistence gateway and updated locally after each
// successful write.
package tracker

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// Options configures a Session.
type Options struct {
	FirstTime bool
	HashPINs  bool
	Logger    *log.Logger
}

// Session is the application state of one owner. It is shared by every
// request of that owner and is the only write path into its stores.
type Session struct {
	OwnerID   string
	Items     *ItemStore
	History   *HistoryStore
	Reminders *ReminderStore
	Gate      *AccessGate
	Router    *Router

	collections CollectionGateway
	logger      *log.Logger
}

func NewSession(gw Gateway, ownerID string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	items := NewItemStore(gw, gw, ownerID, logger)
	items.HashPINs(opts.HashPINs)
	return &Session{
		OwnerID:     ownerID,
		Items:       items,
		History:     NewHistoryStore(gw, ownerID, logger),
		Reminders:   NewReminderStore(gw, ownerID, logger),
		Gate:        NewAccessGate(),
		Router:      NewRouter(opts.FirstTime),
		collections: gw,
		logger:      logger,
	}
}

// Load fills the three stores in parallel. Each load is best effort; the
// joined errors are returned for the caller to report.
func (s *Session) Load(ctx context.Context) error {
	var g errgroup.Group
	loads := []func(context.Context) error{s.Items.LoadAll, s.History.Load, s.Reminders.Load}
	errs := make([]error, len(loads))
	for i, load := range loads {
		g.Go(func() error {
			errs[i] = load(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// audit records one history entry. The item change already happened, so a
// failure here is only logged.
func (s *Session) audit(ctx context.Context, e models.NewHistoryEntry) {
	if err := s.History.Record(ctx, e); err != nil {
		s.logger.Printf("session %s: %s of %q not audited: %v", s.OwnerID, e.Action, e.ItemName, err)
	}
}

// AddItem adds an item, audits it and returns to home.
func (s *Session) AddItem(ctx context.Context, d ItemDraft) (models.Item, error) {
	created, err := s.Items.Add(ctx, d)
	if err != nil {
		return created, err
	}
	s.audit(ctx, Created(created))
	if d.ExpiryDate != nil {
		_ = s.Reminders.Load(ctx)
	}
	s.Router.CompleteAdd()
	return created, nil
}

// UpdateItem saves an edit, audits it and returns to the inventory.
func (s *Session) UpdateItem(ctx context.Context, id string, d ItemDraft) (models.Item, error) {
	old, updated, err := s.Items.Update(ctx, id, d)
	if err != nil {
		return updated, err
	}
	s.audit(ctx, Changed(old, updated))
	s.Router.CompleteUpdate()
	return updated, nil
}

// RemoveItem deletes an item, audits it and returns to the inventory.
func (s *Session) RemoveItem(ctx context.Context, id string) (models.Item, error) {
	old, err := s.Items.Remove(ctx, id)
	if err != nil {
		return old, err
	}
	s.audit(ctx, Deleted(old))
	s.Router.CompleteDelete()
	return old, nil
}

// AssignGroup sets or clears an item's group.
func (s *Session) AssignGroup(ctx context.Context, id string, groupID *string) (models.Item, error) {
	old, updated, err := s.Items.AssignGroup(ctx, id, groupID)
	if err != nil {
		return updated, err
	}
	s.audit(ctx, Changed(old, updated))
	return updated, nil
}

// AssignContainer sets or clears an item's container.
func (s *Session) AssignContainer(ctx context.Context, id string, containerID *string) (models.Item, error) {
	old, updated, err := s.Items.AssignContainer(ctx, id, containerID)
	if err != nil {
		return updated, err
	}
	s.audit(ctx, Changed(old, updated))
	return updated, nil
}

// EditItem opens the edit view on a loaded item.
func (s *Session) EditItem(id string) (models.Item, error) {
	it, ok := s.Items.Get(id)
	if !ok {
		return it, ErrUnknownItem
	}
	s.Router.Edit(it)
	return it, nil
}

// Selection is the outcome of selecting an item in the inventory.
type Selection struct {
	Challenge bool   `json:"challenge"`
	Expanded  string `json:"expanded_item"`
}

// SelectItem opens a PIN challenge for a locked item, otherwise toggles its
// expanded detail.
func (s *Session) SelectItem(id string) (Selection, error) {
	it, ok := s.Items.Get(id)
	if !ok {
		return Selection{}, ErrUnknownItem
	}
	if s.Gate.Select(it) {
		return Selection{Challenge: true}, nil
	}
	return Selection{Expanded: s.Router.ToggleExpanded(id)}, nil
}

// SubmitPIN answers the open challenge and expands the item on success.
func (s *Session) SubmitPIN(entered string) (string, error) {
	id, err := s.Gate.Submit(entered, s.Items.Get)
	if err != nil {
		return "", err
	}
	s.Router.Expand(id)
	return id, nil
}

// Search filters the loaded items.
func (s *Session) Search(q Query) []models.Item {
	return Filter(s.Items.Items(), q)
}

// Tags lists the tags in use.
func (s *Session) Tags() []string {
	return AllTags(s.Items.Items())
}

// CreateReminder adds a reminder and reloads the reminder store.
func (s *Session) CreateReminder(ctx context.Context, d ReminderDraft) (models.Reminder, error) {
	if _, ok := s.Items.Get(d.ItemID); !ok && d.ItemID != "" {
		return models.Reminder{}, ErrUnknownItem
	}
	r, err := s.Reminders.Create(ctx, d)
	if err != nil {
		return r, err
	}
	_ = s.Reminders.Load(ctx)
	return r, nil
}

// SetReminderActive toggles a reminder and reloads the reminder store.
func (s *Session) SetReminderActive(ctx context.Context, id string, active bool) (models.Reminder, error) {
	r, err := s.Reminders.SetActive(ctx, id, active)
	if err != nil {
		return r, err
	}
	_ = s.Reminders.Load(ctx)
	return r, nil
}

// DeleteReminder removes a reminder and reloads the reminder store.
func (s *Session) DeleteReminder(ctx context.Context, id string) error {
	if err := s.Reminders.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.Reminders.Load(ctx)
	return nil
}

// Groups lists the owner's groups.
func (s *Session) Groups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.collections.ListGroups(ctx, s.OwnerID)
	if err != nil {
		s.logger.Printf("session %s: list groups failed: %v", s.OwnerID, err)
		return nil, gatewayErr("list groups", err)
	}
	return groups, nil
}

// Containers builds the owner's container tree.
func (s *Session) Containers(ctx context.Context) (*ContainerTree, error) {
	containers, err := s.collections.ListContainers(ctx, s.OwnerID)
	if err != nil {
		s.logger.Printf("session %s: list containers failed: %v", s.OwnerID, err)
		return nil, gatewayErr("list containers", err)
	}
	return NewContainerTree(containers), nil
}

// ItemsInContainer lists the items in a container, including those in
// containers nested under it when nested is set.
func (s *Session) ItemsInContainer(ctx context.Context, id string, nested bool) ([]models.Item, error) {
	if !nested {
		return s.Items.InContainer(id), nil
	}
	tree, err := s.Containers(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Item{}
	for _, cid := range tree.Subtree(id) {
		out = append(out, s.Items.InContainer(cid)...)
	}
	return out, nil
}

// VisualMaps lists the owner's floor maps.
func (s *Session) VisualMaps(ctx context.Context) ([]models.VisualMap, error) {
	maps, err := s.collections.ListVisualMaps(ctx, s.OwnerID)
	if err != nil {
		s.logger.Printf("session %s: list visual maps failed: %v", s.OwnerID, err)
		return nil, gatewayErr("list visual maps", err)
	}
	return maps, nil
}
