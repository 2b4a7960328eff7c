// Package importer reads items from an Excel workbook and adds them through
// a tracker session.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

// Adder is the write path items go through. *tracker.Session satisfies it.
type Adder interface {
	AddItem(ctx context.Context, d tracker.ItemDraft) (models.Item, error)
}

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	Sheet       string // default: first sheet
	MappingPath string // optional YAML file with extra header aliases
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary contains the import statistics
type ImportSummary struct {
	Sheet    string     `json:"sheet"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
	DryRun   bool       `json:"dry_run"`
}

// MappingConfig is the optional YAML alias file:
//
//	aliases:
//	  name: [Item, Title]
//	  location: [Where]
type MappingConfig struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// Fields understood by the importer and the headers recognized for each.
var defaultAliases = map[string][]string{
	"name":        {"Name", "Item", "Item Name"},
	"location":    {"Location", "Where", "Place"},
	"category":    {"Category", "Category ID"},
	"tags":        {"Tags", "Labels"},
	"description": {"Description"},
	"notes":       {"Notes"},
	"starred":     {"Starred", "Favorite"},
	"expiry":      {"Expiry", "Expiry Date", "Expires"},
	"days_before": {"Days Before", "Remind Days Before"},
}

const maxSamples = 20

// ImportExcel adds one item per data row of the sheet. The first row holds
// the headers. Blank rows are skipped; rows that fail validation or the
// gateway are counted as errors and the import continues until MaxErrors.
func ImportExcel(ctx context.Context, adder Adder, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{DryRun: opts.DryRun}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	aliases, err := loadAliases(opts.MappingPath)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping config: %w", err)
	}

	// xlsx.OpenReaderAt needs an io.ReaderAt, so read everything first
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return summary, fmt.Errorf("workbook has no sheets")
	}

	sheet := xlFile.Sheets[0]
	if opts.Sheet != "" {
		s, ok := xlFile.Sheet[opts.Sheet]
		if !ok {
			return summary, fmt.Errorf("sheet %q not found", opts.Sheet)
		}
		sheet = s
	}
	summary.Sheet = sheet.Name

	rows, err := readRows(sheet)
	if err != nil {
		return summary, fmt.Errorf("failed to read sheet %s: %w", sheet.Name, err)
	}
	if len(rows) == 0 {
		return summary, fmt.Errorf("sheet %s is empty", sheet.Name)
	}

	columns := mapHeaders(rows[0], aliases)
	if _, ok := columns["name"]; !ok {
		return summary, fmt.Errorf("sheet %s has no Name column", sheet.Name)
	}

	for i, cells := range rows[1:] {
		rowNum := i + 2
		record := map[string]string{}
		for field, col := range columns {
			if col < len(cells) && cells[col] != "" {
				record[field] = cells[col]
			}
		}
		if len(record) == 0 {
			summary.Skipped++
			continue
		}

		err := importRow(ctx, adder, record, opts.DryRun)
		if err != nil {
			summary.Errors++
			if len(summary.Samples) < maxSamples {
				summary.Samples = append(summary.Samples, RowError{Sheet: sheet.Name, Row: rowNum, Message: err.Error()})
			}
			if summary.Errors > opts.MaxErrors {
				return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
			}
			continue
		}
		summary.Inserted++
	}
	return summary, nil
}

func importRow(ctx context.Context, adder Adder, record map[string]string, dryRun bool) error {
	draft, err := buildDraft(record)
	if err != nil {
		return err
	}
	if err := draft.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	_, err = adder.AddItem(ctx, draft)
	return err
}

func buildDraft(record map[string]string) (tracker.ItemDraft, error) {
	d := tracker.ItemDraft{
		Name:        record["name"],
		Location:    record["location"],
		Description: record["description"],
		Notes:       record["notes"],
		CategoryID:  categoryID(record["category"]),
	}
	if tags := record["tags"]; tags != "" {
		d.Tags = strings.Split(tags, ",")
	}
	if s := record["starred"]; s != "" {
		d.Starred = parseBool(s)
	}
	if s := record["expiry"]; s != "" {
		t, err := parseDate(s)
		if err != nil {
			return d, fmt.Errorf("invalid expiry %q: %w", s, err)
		}
		d.ExpiryDate = &t
	}
	if s := record["days_before"]; s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return d, fmt.Errorf("invalid days before %q", s)
		}
		d.ReminderDaysBefore = n
	}
	return d, nil
}

// categoryID accepts a category id or display name.
func categoryID(v string) string {
	for _, c := range models.Categories {
		if strings.EqualFold(c.ID, v) || strings.EqualFold(c.Name, v) {
			return c.ID
		}
	}
	return ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "02.01.2006", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Date cells without a number format come through as Excel serial days.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return xlsx.TimeFromExcelTime(serial, false), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date")
}

func readRows(sheet *xlsx.Sheet) ([][]string, error) {
	var rows [][]string
	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		var cells []string
		err := r.ForEachCell(func(c *xlsx.Cell) error {
			col, _ := c.GetCoordinates()
			for len(cells) < col {
				cells = append(cells, "")
			}
			cells = append(cells, strings.TrimSpace(cellText(c)))
			return nil
		})
		rows = append(rows, cells)
		return err
	})
	return rows, err
}

func cellText(c *xlsx.Cell) string {
	if c.IsTime() {
		if t, err := c.GetTime(false); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return c.String()
}

func mapHeaders(header []string, aliases map[string][]string) map[string]int {
	columns := map[string]int{}
	for col, name := range header {
		if name == "" {
			continue
		}
		for field, names := range aliases {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, alias := range names {
				if strings.EqualFold(alias, name) {
					columns[field] = col
					break
				}
			}
		}
	}
	return columns
}

func loadAliases(path string) (map[string][]string, error) {
	aliases := make(map[string][]string, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = append([]string(nil), v...)
	}
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg MappingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	for field, extra := range cfg.Aliases {
		if _, ok := aliases[field]; !ok {
			return nil, fmt.Errorf("unknown field %q in mapping", field)
		}
		aliases[field] = append(aliases[field], extra...)
	}
	return aliases, nil
}
