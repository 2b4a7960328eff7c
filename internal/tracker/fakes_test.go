package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/gateway"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/testutil"
)

const testOwner = "11111111-1111-4111-8111-111111111111"

var errBackend = errors.New("backend unavailable")

// flakyGateway counts calls and fails the ones switched off with failOn.
type flakyGateway struct {
	*gateway.Gateway

	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newFlakyGateway(t *testing.T) *flakyGateway {
	return &flakyGateway{
		Gateway: testutil.NewGateway(t),
		fail:    map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *flakyGateway) failOn(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range ops {
		f.fail[op] = true
	}
}

func (f *flakyGateway) heal() {
	f.mu.Lock()
	f.fail = map[string]bool{}
	f.mu.Unlock()
}

func (f *flakyGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *flakyGateway) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return errBackend
	}
	return nil
}

func (f *flakyGateway) ListItems(ctx context.Context, owner string) ([]models.Item, error) {
	if err := f.hit("ListItems"); err != nil {
		return nil, err
	}
	return f.Gateway.ListItems(ctx, owner)
}

func (f *flakyGateway) InsertItem(ctx context.Context, in models.NewItem) (models.Item, error) {
	if err := f.hit("InsertItem"); err != nil {
		return models.Item{}, err
	}
	return f.Gateway.InsertItem(ctx, in)
}

func (f *flakyGateway) UpdateItem(ctx context.Context, owner, id string, p models.ItemPatch) (models.Item, error) {
	if err := f.hit("UpdateItem"); err != nil {
		return models.Item{}, err
	}
	return f.Gateway.UpdateItem(ctx, owner, id, p)
}

func (f *flakyGateway) DeleteItem(ctx context.Context, owner, id string) error {
	if err := f.hit("DeleteItem"); err != nil {
		return err
	}
	return f.Gateway.DeleteItem(ctx, owner, id)
}

func (f *flakyGateway) ListHistory(ctx context.Context, owner string) ([]models.HistoryEntry, error) {
	if err := f.hit("ListHistory"); err != nil {
		return nil, err
	}
	return f.Gateway.ListHistory(ctx, owner)
}

func (f *flakyGateway) InsertHistory(ctx context.Context, in models.NewHistoryEntry) (models.HistoryEntry, error) {
	if err := f.hit("InsertHistory"); err != nil {
		return models.HistoryEntry{}, err
	}
	return f.Gateway.InsertHistory(ctx, in)
}

func (f *flakyGateway) ListReminders(ctx context.Context, owner string) ([]models.Reminder, error) {
	if err := f.hit("ListReminders"); err != nil {
		return nil, err
	}
	return f.Gateway.ListReminders(ctx, owner)
}

func (f *flakyGateway) InsertReminder(ctx context.Context, in models.NewReminder) (models.Reminder, error) {
	if err := f.hit("InsertReminder"); err != nil {
		return models.Reminder{}, err
	}
	return f.Gateway.InsertReminder(ctx, in)
}

func newTestSession(t *testing.T) (*Session, *flakyGateway) {
	t.Helper()
	gw := newFlakyGateway(t)
	s := NewSession(gw, testOwner, Options{Logger: testutil.DiscardLogger()})
	return s, gw
}

func strPtr(s string) *string { return &s }
