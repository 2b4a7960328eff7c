package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

const itemColumns = `id, owner_id, name, location, description, notes, category_id, tags,
	item_photo, location_photo, starred, has_pin, pin_code, group_id, container_id,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var it models.Item
	var tags pq.StringArray
	var itemPhoto, locationPhoto, pinCode, groupID, containerID sql.NullString
	if err := row.Scan(
		&it.ID, &it.OwnerID, &it.Name, &it.Location, &it.Description, &it.Notes, &it.CategoryID, &tags,
		&itemPhoto, &locationPhoto, &it.Starred, &it.HasPIN, &pinCode, &groupID, &containerID,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return models.Item{}, err
	}
	it.Tags = []string(tags)
	if it.Tags == nil {
		it.Tags = []string{}
	}
	it.ItemPhoto = nullString(itemPhoto)
	it.LocationPhoto = nullString(locationPhoto)
	it.PINCode = pinCode.String
	it.GroupID = nullString(groupID)
	it.ContainerID = nullString(containerID)
	return it, nil
}

// ListItems returns the owner's items, newest first.
func (g *Gateway) ListItems(ctx context.Context, ownerID string) (items []models.Item, err error) {
	defer g.track("items", "select", &err)()
	return g.selectItems(ctx, `WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
}

func (g *Gateway) selectItems(ctx context.Context, where string, args ...any) ([]models.Item, error) {
	rows, err := g.db.QueryContext(ctx, g.rebind(`SELECT `+itemColumns+` FROM items `+where), args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", classify(err))
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// InsertItem stores a new item, assigning its id and timestamps.
func (g *Gateway) InsertItem(ctx context.Context, in models.NewItem) (out models.Item, err error) {
	defer g.track("items", "insert", &err)()

	now := g.now()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	var pin interface{}
	if in.PINCode != "" {
		pin = in.PINCode
	}
	id := newID()
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO items (id, owner_id, name, location, description, notes, category_id, tags,
		                   item_photo, location_photo, starred, has_pin, pin_code, group_id, container_id,
		                   created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		id, in.OwnerID, in.Name, in.Location, in.Description, in.Notes, in.CategoryID, pq.Array(tags),
		strPtrValue(in.ItemPhoto), strPtrValue(in.LocationPhoto), in.Starred, in.HasPIN, pin,
		strPtrValue(in.GroupID), strPtrValue(in.ContainerID), now, now,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("creating item: %w", classify(err))
	}

	return models.Item{
		ID:            id,
		OwnerID:       in.OwnerID,
		Name:          in.Name,
		Location:      in.Location,
		Description:   in.Description,
		Notes:         in.Notes,
		CategoryID:    in.CategoryID,
		Tags:          append([]string{}, tags...),
		ItemPhoto:     in.ItemPhoto,
		LocationPhoto: in.LocationPhoto,
		Starred:       in.Starred,
		HasPIN:        in.HasPIN,
		PINCode:       in.PINCode,
		GroupID:       in.GroupID,
		ContainerID:   in.ContainerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateItem applies patch to the owner's item and returns the stored row.
func (g *Gateway) UpdateItem(ctx context.Context, ownerID, id string, patch models.ItemPatch) (out models.Item, err error) {
	defer g.track("items", "update", &err)()

	type set struct {
		sql string
		val interface{}
	}
	sets := make([]set, 0, 14)
	if patch.Name != nil {
		sets = append(sets, set{"name = ?", *patch.Name})
	}
	if patch.Location != nil {
		sets = append(sets, set{"location = ?", *patch.Location})
	}
	if patch.Description != nil {
		sets = append(sets, set{"description = ?", *patch.Description})
	}
	if patch.Notes != nil {
		sets = append(sets, set{"notes = ?", *patch.Notes})
	}
	if patch.CategoryID != nil {
		sets = append(sets, set{"category_id = ?", *patch.CategoryID})
	}
	if patch.TagsSet {
		tags := patch.Tags
		if tags == nil {
			tags = []string{}
		}
		sets = append(sets, set{"tags = ?", pq.Array(tags)})
	}
	if patch.ItemPhoto != nil {
		sets = append(sets, set{"item_photo = ?", nullIfEmpty(*patch.ItemPhoto)})
	}
	if patch.LocationPhoto != nil {
		sets = append(sets, set{"location_photo = ?", nullIfEmpty(*patch.LocationPhoto)})
	}
	if patch.Starred != nil {
		sets = append(sets, set{"starred = ?", *patch.Starred})
	}
	if patch.HasPIN != nil {
		sets = append(sets, set{"has_pin = ?", *patch.HasPIN})
	}
	if patch.PINCode != nil {
		sets = append(sets, set{"pin_code = ?", *patch.PINCode})
	}
	if patch.GroupID != nil {
		sets = append(sets, set{"group_id = ?", strPtrValue(*patch.GroupID)})
	}
	if patch.ContainerID != nil {
		sets = append(sets, set{"container_id = ?", strPtrValue(*patch.ContainerID)})
	}
	sets = append(sets, set{"updated_at = ?", g.now()})

	args := make([]interface{}, 0, len(sets)+2)
	sqlStr := "UPDATE items SET "
	for i, s := range sets {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += s.sql
		args = append(args, s.val)
	}
	sqlStr += " WHERE id = ? AND owner_id = ?"
	args = append(args, id, ownerID)

	res, err := g.db.ExecContext(ctx, g.rebind(sqlStr), args...)
	if err != nil {
		return models.Item{}, fmt.Errorf("updating item %s: %w", id, classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Item{}, fmt.Errorf("updating item %s: %w", id, ErrNotFound)
	}

	out, err = scanItem(g.db.QueryRowContext(ctx,
		g.rebind(`SELECT `+itemColumns+` FROM items WHERE id = ? AND owner_id = ?`), id, ownerID))
	if err != nil {
		return models.Item{}, fmt.Errorf("reading item %s: %w", id, classify(err))
	}
	return out, nil
}

// DeleteItem removes the owner's item.
func (g *Gateway) DeleteItem(ctx context.Context, ownerID, id string) (err error) {
	defer g.track("items", "delete", &err)()

	res, err := g.db.ExecContext(ctx, g.rebind(`DELETE FROM items WHERE id = ? AND owner_id = ?`), id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, classify(err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deleting item %s: %w", id, ErrNotFound)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
