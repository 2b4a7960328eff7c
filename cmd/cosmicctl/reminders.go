package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

var (
	remindersAll  bool
	remindersJSON bool
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List reminders that are due",
	Long: `Reminders lists the owner's active reminders whose window is open today,
soonest expiry first. --all lists every reminder with its status.

Example:
  cosmicctl reminders --owner <uuid>
  cosmicctl reminders --owner <uuid> --all --json`,
	RunE: runReminders,
}

func init() {
	ownerFlag(remindersCmd)
	remindersCmd.Flags().BoolVar(&remindersAll, "all", false, "list every reminder, not only due ones")
	remindersCmd.Flags().BoolVar(&remindersJSON, "json", false, "print JSON")
}

func runReminders(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	views := sess.Reminders.Due(now)
	if remindersAll {
		views = sess.Reminders.Status(now)
	}

	if remindersJSON {
		output, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal reminders: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}
	printReminderTable(sess, views)
	return nil
}

// printReminderTable prints reminders in a human-readable table format.
func printReminderTable(sess *tracker.Session, views []tracker.ReminderView) {
	if len(views) == 0 {
		fmt.Println("No reminders")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tEXPIRY\tDAYS LEFT\tSTATUS")
	for _, v := range views {
		name := v.ItemID
		if it, ok := sess.Items.Get(v.ItemID); ok {
			name = it.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, v.ExpiryDate.Format(time.DateOnly), v.DaysUntilExpiry, v.Status)
	}
	w.Flush()
}
