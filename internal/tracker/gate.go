package tracker

import (
	"sync"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// GatePhase is the Access Gate state.
type GatePhase string

const (
	GateLocked      GatePhase = "locked"
	GateChallenging GatePhase = "challenging"
)

// GateState is what the PIN dialog shows. The PIN itself never leaves the gate.
type GateState struct {
	Phase   GatePhase `json:"phase"`
	ItemID  string    `json:"item_id,omitempty"`
	Entered int       `json:"entered"`
}

// challenge holds the challenged id only; the PIN is read from the item at
// submit time so edits and deletes made meanwhile apply.
type challenge struct {
	itemID  string
	entered []byte
}

// ItemLookup returns the current state of a loaded item.
type ItemLookup func(id string) (models.Item, bool)

// AccessGate guards the expanded detail of PIN-protected items. Unlocked items
// stay unlocked for the life of the gate.
type AccessGate struct {
	mu       sync.Mutex
	unlocked map[string]struct{}
	current  *challenge
}

func NewAccessGate() *AccessGate {
	return &AccessGate{unlocked: make(map[string]struct{})}
}

// Select reports whether item needs a PIN before its detail is shown. If it
// does, a challenge for it is opened, replacing any previous one.
func (g *AccessGate) Select(item models.Item) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !item.HasPIN {
		return false
	}
	if _, ok := g.unlocked[item.ID]; ok {
		return false
	}
	g.current = &challenge{itemID: item.ID}
	return true
}

// Enter appends one digit to the challenge input. Input past four digits is
// ignored.
func (g *AccessGate) Enter(digit byte) error {
	if digit < '0' || digit > '9' {
		return invalid("pin", "only digits may be entered")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return ErrNoChallenge
	}
	if len(g.current.entered) < models.PINLength {
		g.current.entered = append(g.current.entered, digit)
	}
	return nil
}

// Submit checks entered, or the digits collected by Enter when entered is
// empty, against the challenged item's current PIN as returned by lookup. On a
// match the item is unlocked and its id returned. On a mismatch the challenge
// stays open with its input cleared. A challenged item that is gone closes the
// challenge with ErrUnknownItem.
func (g *AccessGate) Submit(entered string, lookup ItemLookup) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.current
	if c == nil {
		return "", ErrNoChallenge
	}
	item, ok := lookup(c.itemID)
	if !ok {
		g.current = nil
		return "", ErrUnknownItem
	}
	if !item.HasPIN {
		g.current = nil
		return c.itemID, nil
	}
	if entered == "" {
		entered = string(c.entered)
	}
	if !pinMatches(item.PINCode, entered) {
		c.entered = c.entered[:0]
		return "", ErrIncorrectPIN
	}
	g.unlocked[c.itemID] = struct{}{}
	g.current = nil
	return c.itemID, nil
}

// Cancel closes the open challenge, if any.
func (g *AccessGate) Cancel() {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
}

// IsUnlocked reports whether id was unlocked in this session.
func (g *AccessGate) IsUnlocked(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.unlocked[id]
	return ok
}

func (g *AccessGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return GateState{Phase: GateLocked}
	}
	return GateState{Phase: GateChallenging, ItemID: g.current.itemID, Entered: len(g.current.entered)}
}
