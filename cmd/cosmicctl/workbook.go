package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/pkg/exporter"
	"github.com/mubashira9/Cosmic-Tracker-sub000/pkg/importer"
)

var (
	importFile      string
	importSheet     string
	importMapping   string
	importDryRun    bool
	importMaxErrors int

	exportOut string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import items from an Excel workbook",
	Long: `Import adds one item per row of the sheet, recording history and
reminders the same way the API does. The header row names the columns;
--mapping adds header aliases from a YAML file.

Example:
  cosmicctl import --owner <uuid> --file items.xlsx
  cosmicctl import --owner <uuid> --file items.xlsx --sheet Garage --dry-run`,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory to an Excel workbook",
	Long: `Export writes the owner's items and reminders to an .xlsx file.

Example:
  cosmicctl export --owner <uuid> --out inventory.xlsx`,
	RunE: runExport,
}

func init() {
	ownerFlag(importCmd)
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the .xlsx file")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet to read (default: first)")
	importCmd.Flags().StringVar(&importMapping, "mapping", "", "YAML file with extra header aliases")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate rows without adding items")
	importCmd.Flags().IntVar(&importMaxErrors, "max-errors", 50, "stop after this many failed rows")
	_ = importCmd.MarkFlagRequired("file")

	ownerFlag(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: cosmic-tracker-<date>.xlsx)")
}

func runImport(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	file, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	mapping := importMapping
	if mapping == "" {
		mapping = cfg.ImportMapping
	}

	fmt.Printf("Importing from %s for owner %s (dry_run=%v)\n", importFile, ownerID, importDryRun)
	fmt.Println("=" + strings.Repeat("=", 60))

	summary, err := importer.ImportExcel(cmd.Context(), sess, file, importer.ImportOptions{
		Sheet:       importSheet,
		MappingPath: mapping,
		DryRun:      importDryRun,
		MaxErrors:   importMaxErrors,
	})

	fmt.Printf("Sheet:    %s\n", summary.Sheet)
	fmt.Printf("Inserted: %d\n", summary.Inserted)
	fmt.Printf("Skipped:  %d\n", summary.Skipped)
	fmt.Printf("Errors:   %d\n", summary.Errors)
	for _, e := range summary.Samples {
		fmt.Printf("  row %d: %s\n", e.Row, e.Message)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	groups, err := sess.Groups(cmd.Context())
	if err != nil {
		return err
	}
	tree, err := sess.Containers(cmd.Context())
	if err != nil {
		return err
	}
	containers := make([]models.Container, 0, tree.Len())
	for _, e := range tree.Walk() {
		containers = append(containers, e.Container)
	}

	now := time.Now().UTC()
	out := exportOut
	if out == "" {
		out = fmt.Sprintf("cosmic-tracker-%s.xlsx", now.Format(time.DateOnly))
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	err = exporter.Write(f, exporter.Workbook{
		Items:      sess.Items.Items(),
		Reminders:  sess.Reminders.Reminders(),
		Groups:     groups,
		Containers: containers,
		Now:        now,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("Exported %d items to %s\n", sess.Items.Len(), out)
	return nil
}
