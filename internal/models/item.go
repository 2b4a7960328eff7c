package models

import "time"

// PINLength is the exact length of an item PIN code.
const PINLength = 4

// Item is one tracked physical object owned by a signed-in user.
type Item struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Description   string    `json:"description,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CategoryID    string    `json:"category_id"`
	Category      Category  `json:"category"`
	Tags          []string  `json:"tags"`
	ItemPhoto     *string   `json:"item_photo,omitempty"`
	LocationPhoto *string   `json:"location_photo,omitempty"`
	Starred       bool      `json:"starred"`
	HasPIN        bool      `json:"has_pin"`
	PINCode       string    `json:"-"` // Never expose in JSON
	GroupID       *string   `json:"group_id,omitempty"`
	ContainerID   *string   `json:"container_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewItem is the row inserted for a freshly added item.
// The gateway assigns ID, CreatedAt and UpdatedAt.
type NewItem struct {
	OwnerID       string
	Name          string
	Location      string
	Description   string
	Notes         string
	CategoryID    string
	Tags          []string
	ItemPhoto     *string
	LocationPhoto *string
	Starred       bool
	HasPIN        bool
	PINCode       string
	GroupID       *string
	ContainerID   *string
}

// ItemPatch lists the columns an update touches. A nil field is left unchanged.
// For GroupID and ContainerID a non-nil pointer to nil clears the reference.
type ItemPatch struct {
	Name          *string
	Location      *string
	Description   *string
	Notes         *string
	CategoryID    *string
	Tags          []string
	TagsSet       bool
	ItemPhoto     *string
	LocationPhoto *string
	Starred       *bool
	HasPIN        *bool
	PINCode       *string
	GroupID       **string
	ContainerID   **string
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Description == nil && p.Notes == nil &&
		p.CategoryID == nil && !p.TagsSet && p.ItemPhoto == nil && p.LocationPhoto == nil &&
		p.Starred == nil && p.HasPIN == nil && p.PINCode == nil && p.GroupID == nil && p.ContainerID == nil
}

// Snapshot returns the audit representation of the item stored in history
// old_values/new_values. The PIN code is left out.
func (it Item) Snapshot() JSONB {
	snap := JSONB{
		"id":          it.ID,
		"name":        it.Name,
		"location":    it.Location,
		"description": it.Description,
		"notes":       it.Notes,
		"category_id": it.CategoryID,
		"tags":        append([]string{}, it.Tags...),
		"starred":     it.Starred,
		"has_pin":     it.HasPIN,
	}
	if it.ItemPhoto != nil {
		snap["item_photo"] = *it.ItemPhoto
	}
	if it.LocationPhoto != nil {
		snap["location_photo"] = *it.LocationPhoto
	}
	if it.GroupID != nil {
		snap["group_id"] = *it.GroupID
	}
	if it.ContainerID != nil {
		snap["container_id"] = *it.ContainerID
	}
	return snap
}

// HasTag reports whether tag is one of the item's tags.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AppendTag adds tag unless it is empty or already present, preserving order.
func AppendTag(tags []string, tag string) []string {
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
