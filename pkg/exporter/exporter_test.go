package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

func strPtr(s string) *string { return &s }

func TestWrite(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	wb := Workbook{
		Items: []models.Item{
			{ID: "i1", Name: "Drill", Location: "Garage", CategoryID: "tools", Tags: []string{"power", "diy"},
				Starred: true, HasPIN: true, PINCode: "1234", GroupID: strPtr("g1"), ContainerID: strPtr("c9"),
				CreatedAt: now, UpdatedAt: now},
			{ID: "i2", Name: "Milk", Location: "Fridge", CategoryID: "bogus", CreatedAt: now, UpdatedAt: now},
		},
		Reminders: []models.Reminder{
			{ID: "r1", ItemID: "i2", ExpiryDate: now.AddDate(0, 0, 2), ReminderDaysBefore: 3, IsActive: true},
		},
		Groups: []models.Group{{ID: "g1", Name: "Workshop"}},
		Now:    now,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, wb))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	items := f.Sheet["Items"]
	require.NotNil(t, items)
	assert.Equal(t, 3, items.MaxRow)

	cell := func(sh *xlsx.Sheet, row, col int) string {
		c, err := sh.Cell(row, col)
		require.NoError(t, err)
		return c.String()
	}
	assert.Equal(t, "Name", cell(items, 0, 0))
	assert.Equal(t, "Drill", cell(items, 1, 0))
	assert.Equal(t, "Tools", cell(items, 1, 2))
	assert.Equal(t, "power, diy", cell(items, 1, 3))
	assert.Equal(t, "yes", cell(items, 1, 7))
	assert.Equal(t, "Workshop", cell(items, 1, 8))
	assert.Equal(t, "c9", cell(items, 1, 9))
	assert.Equal(t, "Electronics", cell(items, 2, 2))

	for row := 0; row < items.MaxRow; row++ {
		for col := 0; col < len(ItemHeaders); col++ {
			assert.NotEqual(t, "1234", cell(items, row, col))
		}
	}

	reminders := f.Sheet["Reminders"]
	require.NotNil(t, reminders)
	assert.Equal(t, "Milk", cell(reminders, 1, 0))
	assert.Equal(t, "2026-03-12", cell(reminders, 1, 1))
	assert.Equal(t, "due", cell(reminders, 1, 4))
}
