package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/parsers"
	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/storage"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(
		listCmd, todayCmd, nowCmd,
		notifyCmd, searchCmd,
		recurringCmd, exportCmd)
	listCmd.Flags().BoolP("all", "a", false, "include completed records")
	todayCmd.Flags().BoolP("all", "a", false, "include completed records")
	exportCmd.Flags().StringP("format", "f", "yaml", "export format: yaml, json or ical")
}

func printRecords(cmd *cobra.Command, records []*record.Record) {
	for _, r := range records {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
}

var listCmd = &cobra.Command{
	Use:   "list [-a]",
	Short: "list all records",
	Long: `list|ls [-a]
  lists the whole calendar in date order`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return err
		}
		return loadFuncDB(func(db *storage.MemoryDB) error {
			records, err := db.ListAll(time.Now(), all)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		})
	},
}

var todayCmd = &cobra.Command{
	Use:   "today [-a]",
	Short: "list today's records",
	Long: `today|t [-a]
  lists the records touching today`,
	Aliases: []string{"t"},
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return err
		}
		return loadFuncDB(func(db *storage.MemoryDB) error {
			records, err := db.ListToday(time.Now(), all)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		})
	},
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "list what is happening around now",
	Long: `now
  lists records within the query window around now`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := well()
		if err != nil {
			return err
		}
		return loadFuncDB(func(db *storage.MemoryDB) error {
			records, err := db.EventsNow(time.Now(), w)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		})
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "list due notifications",
	Long: `notify
  lists records whose notify lead has come due and marks them notified`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		return loadFuncStoreDB(func(db *storage.MemoryDB) error {
			records, err := db.Notify(now)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <statement>",
	Short: "search the calendar",
	Long: `search|s <statement>
  filters records by a search statement, e.g.
    search date today detail dinner
    search time from 8 to 12 unfinished`,
	Aliases: []string{"s"},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		pred, err := parsers.ParseSearch(strings.Join(args, " "), now)
		if err != nil {
			return err
		}
		return loadFuncDB(func(db *storage.MemoryDB) error {
			records, err := db.Search(pred, now)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		})
	},
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "list recurring records",
	Long: `recurring
  lists recurring records with their intervals and RRULEs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadFuncDB(func(db *storage.MemoryDB) error {
			for _, def := range db.ListRecurrence() {
				line := fmt.Sprintf("%d. every %s: %s", def.Key, def.Every, def.Template.Detail)
				if rr, err := def.RRule(); err == nil {
					line += " (" + rr + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [-f yaml|json|ical]",
	Short: "export the calendar",
	Long: `export [-f yaml|json|ical]
  writes the whole calendar to stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		arg, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		format, err := storage.ParseExportFormat(arg)
		if err != nil {
			return err
		}
		return loadFuncDB(func(db *storage.MemoryDB) error {
			return storage.Export(cmd.OutOrStdout(), db, time.Now(), format)
		})
	},
}
