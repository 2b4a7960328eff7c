// Package exporter writes the inventory to an Excel workbook.
package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

// ItemHeaders is the header row of the Items sheet. pkg/importer reads the
// same names back.
var ItemHeaders = []string{
	"Name", "Location", "Category", "Tags", "Description", "Notes",
	"Starred", "Protected", "Group", "Container", "Created", "Updated",
}

// ReminderHeaders is the header row of the Reminders sheet.
var ReminderHeaders = []string{"Item", "Expiry", "Days Before", "Active", "Status"}

// Workbook is what gets exported.
type Workbook struct {
	Items      []models.Item
	Reminders  []models.Reminder
	Groups     []models.Group
	Containers []models.Container
	Now        time.Time
}

// Write renders wb as an .xlsx file. Group and container ids are replaced by
// their names where known. PINs are never written.
func Write(w io.Writer, wb Workbook) error {
	if wb.Now.IsZero() {
		wb.Now = time.Now()
	}
	f := xlsx.NewFile()

	if err := writeItems(f, wb); err != nil {
		return err
	}
	if err := writeReminders(f, wb); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeItems(f *xlsx.File, wb Workbook) error {
	sheet, err := f.AddSheet("Items")
	if err != nil {
		return fmt.Errorf("adding items sheet: %w", err)
	}
	header(sheet, ItemHeaders)

	groups := map[string]string{}
	for _, g := range wb.Groups {
		groups[g.ID] = g.Name
	}
	containers := map[string]string{}
	for _, c := range wb.Containers {
		containers[c.ID] = c.Name
	}

	for _, it := range wb.Items {
		row := sheet.AddRow()
		row.AddCell().SetString(it.Name)
		row.AddCell().SetString(it.Location)
		row.AddCell().SetString(models.ResolveCategory(it.CategoryID).Name)
		row.AddCell().SetString(strings.Join(it.Tags, ", "))
		row.AddCell().SetString(it.Description)
		row.AddCell().SetString(it.Notes)
		row.AddCell().SetString(yesNo(it.Starred))
		row.AddCell().SetString(yesNo(it.HasPIN))
		row.AddCell().SetString(lookup(groups, it.GroupID))
		row.AddCell().SetString(lookup(containers, it.ContainerID))
		row.AddCell().SetDateTime(it.CreatedAt)
		row.AddCell().SetDateTime(it.UpdatedAt)
	}
	return nil
}

func writeReminders(f *xlsx.File, wb Workbook) error {
	sheet, err := f.AddSheet("Reminders")
	if err != nil {
		return fmt.Errorf("adding reminders sheet: %w", err)
	}
	header(sheet, ReminderHeaders)

	names := map[string]string{}
	for _, it := range wb.Items {
		names[it.ID] = it.Name
	}
	for _, r := range wb.Reminders {
		row := sheet.AddRow()
		name, ok := names[r.ItemID]
		if !ok {
			name = r.ItemID
		}
		row.AddCell().SetString(name)
		row.AddCell().SetString(r.ExpiryDate.Format(time.DateOnly))
		row.AddCell().SetInt(r.ReminderDaysBefore)
		row.AddCell().SetString(yesNo(r.IsActive))
		row.AddCell().SetString(string(r.Status(wb.Now)))
	}
	return nil
}

func header(sheet *xlsx.Sheet, names []string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().SetString(n)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func lookup(names map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return *id
}
