package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// ListGroups returns the owner's item groups by name.
func (g *Gateway) ListGroups(ctx context.Context, ownerID string) (groups []models.Group, err error) {
	defer g.track("item_groups", "select", &err)()

	rows, err := g.db.QueryContext(ctx, g.rebind(`
		SELECT id, owner_id, name, description, color, icon, created_at
		FROM item_groups WHERE owner_id = ? ORDER BY name ASC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", classify(err))
	}
	defer rows.Close()

	groups = []models.Group{}
	for rows.Next() {
		var gr models.Group
		var description, color, icon sql.NullString
		if err := rows.Scan(&gr.ID, &gr.OwnerID, &gr.Name, &description, &color, &icon, &gr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		gr.Description = nullString(description)
		gr.Color = nullString(color)
		gr.Icon = nullString(icon)
		groups = append(groups, gr)
	}
	return groups, rows.Err()
}

// InsertGroup stores a group.
func (g *Gateway) InsertGroup(ctx context.Context, in models.Group) (out models.Group, err error) {
	defer g.track("item_groups", "insert", &err)()

	in.ID = newID()
	in.CreatedAt = g.now()
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO item_groups (id, owner_id, name, description, color, icon, created_at)
		VALUES (?,?,?,?,?,?,?)`),
		in.ID, in.OwnerID, in.Name, strPtrValue(in.Description), strPtrValue(in.Color), strPtrValue(in.Icon), in.CreatedAt,
	)
	if err != nil {
		return models.Group{}, fmt.Errorf("creating group: %w", classify(err))
	}
	return in, nil
}

// ListContainers returns the owner's containers ordered by level then name.
func (g *Gateway) ListContainers(ctx context.Context, ownerID string) (containers []models.Container, err error) {
	defer g.track("virtual_containers", "select", &err)()

	rows, err := g.db.QueryContext(ctx, g.rebind(`
		SELECT id, owner_id, name, parent_id, level, created_at
		FROM virtual_containers WHERE owner_id = ? ORDER BY level ASC, name ASC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", classify(err))
	}
	defer rows.Close()

	containers = []models.Container{}
	for rows.Next() {
		var c models.Container
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &parentID, &c.Level, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		c.ParentID = nullString(parentID)
		containers = append(containers, c)
	}
	return containers, rows.Err()
}

// InsertContainer stores a container.
func (g *Gateway) InsertContainer(ctx context.Context, in models.Container) (out models.Container, err error) {
	defer g.track("virtual_containers", "insert", &err)()

	in.ID = newID()
	in.CreatedAt = g.now()
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO virtual_containers (id, owner_id, name, parent_id, level, created_at)
		VALUES (?,?,?,?,?,?)`),
		in.ID, in.OwnerID, in.Name, strPtrValue(in.ParentID), in.Level, in.CreatedAt,
	)
	if err != nil {
		return models.Container{}, fmt.Errorf("creating container: %w", classify(err))
	}
	return in, nil
}

// ListVisualMaps returns the owner's maps, newest first.
func (g *Gateway) ListVisualMaps(ctx context.Context, ownerID string) (maps []models.VisualMap, err error) {
	defer g.track("visual_maps", "select", &err)()

	rows, err := g.db.QueryContext(ctx, g.rebind(`
		SELECT id, owner_id, name, image_url, markers, created_at
		FROM visual_maps WHERE owner_id = ? ORDER BY created_at DESC`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing visual maps: %w", classify(err))
	}
	defer rows.Close()

	maps = []models.VisualMap{}
	for rows.Next() {
		var m models.VisualMap
		var imageURL sql.NullString
		var markers models.Markers
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Name, &imageURL, &markers, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning visual map: %w", err)
		}
		m.ImageURL = nullString(imageURL)
		m.Markers = []models.Marker(markers)
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// InsertVisualMap stores a visual map with its markers.
func (g *Gateway) InsertVisualMap(ctx context.Context, in models.VisualMap) (out models.VisualMap, err error) {
	defer g.track("visual_maps", "insert", &err)()

	in.ID = newID()
	in.CreatedAt = g.now()
	if in.Markers == nil {
		in.Markers = []models.Marker{}
	}
	_, err = g.db.ExecContext(ctx, g.rebind(`
		INSERT INTO visual_maps (id, owner_id, name, image_url, markers, created_at)
		VALUES (?,?,?,?,?,?)`),
		in.ID, in.OwnerID, in.Name, strPtrValue(in.ImageURL), models.Markers(in.Markers), in.CreatedAt,
	)
	if err != nil {
		return models.VisualMap{}, fmt.Errorf("creating visual map: %w", classify(err))
	}
	return in, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
