package tracker

import (
	"fmt"
	"sync"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// View names a screen.
type View int

const (
	ViewHome View = iota
	ViewInventory
	ViewAdd
	ViewEdit
	ViewHistory
	ViewReminders
	ViewSettings
	ViewVisualMap
	ViewHelp
)

var viewNames = [...]string{
	ViewHome:      "home",
	ViewInventory: "inventory",
	ViewAdd:       "add",
	ViewEdit:      "edit",
	ViewHistory:   "history",
	ViewReminders: "reminders",
	ViewSettings:  "settings",
	ViewVisualMap: "visual-map",
	ViewHelp:      "help",
}

func (v View) valid() bool {
	return v >= 0 && int(v) < len(viewNames)
}

func (v View) String() string {
	if !v.valid() {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseView maps a view name to its View.
func ParseView(name string) (View, error) {
	for i, n := range viewNames {
		if n == name {
			return View(i), nil
		}
	}
	return 0, invalid("view", fmt.Sprintf("unknown view %q", name))
}

// Screen is what the current view renders. Render is false for the edit view
// with nothing being edited.
type Screen struct {
	View     View         `json:"view"`
	Render   bool         `json:"render"`
	Expanded string       `json:"expanded_item,omitempty"`
	Editing  *models.Item `json:"editing_item,omitempty"`
}

// Router tracks the current view and the state that is shared across views.
// Every navigation resets the expanded and editing items.
type Router struct {
	mu       sync.Mutex
	current  View
	expanded string
	editing  *models.Item
}

// NewRouter starts on home, or on help for a first-time user.
func NewRouter(firstTime bool) *Router {
	r := &Router{current: ViewHome}
	if firstTime {
		r.current = ViewHelp
	}
	return r
}

// Navigate switches to v. Values outside the known views are ignored.
func (r *Router) Navigate(v View) {
	if !v.valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigate(v)
}

func (r *Router) navigate(v View) {
	r.current = v
	r.expanded = ""
	r.editing = nil
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Edit opens the edit view on item.
func (r *Router) Edit(item models.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigate(ViewEdit)
	r.editing = &item
}

// ToggleExpanded expands id, or collapses it if it is already expanded.
func (r *Router) ToggleExpanded(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expanded == id {
		r.expanded = ""
	} else {
		r.expanded = id
	}
	return r.expanded
}

// Expand shows the detail of id.
func (r *Router) Expand(id string) {
	r.mu.Lock()
	r.expanded = id
	r.mu.Unlock()
}

// CompleteAdd returns to home after an item was added.
func (r *Router) CompleteAdd() { r.Navigate(ViewHome) }

// CompleteUpdate returns to the inventory after an item was saved.
func (r *Router) CompleteUpdate() { r.Navigate(ViewInventory) }

// CompleteDelete returns to the inventory after an item was deleted.
func (r *Router) CompleteDelete() { r.Navigate(ViewInventory) }

// Screen resolves the current view.
func (r *Router) Screen() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Screen{View: r.current, Expanded: r.expanded}
	switch r.current {
	case ViewEdit:
		if r.editing != nil {
			it := *r.editing
			s.Editing = &it
			s.Render = true
		}
	case ViewHome, ViewInventory, ViewAdd, ViewHistory, ViewReminders, ViewSettings, ViewVisualMap, ViewHelp:
		s.Render = true
	default:
		panic(fmt.Sprintf("tracker: unhandled view %v", r.current))
	}
	return s
}
