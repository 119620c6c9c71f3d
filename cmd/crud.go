package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erikh/saturn/pkg/logging"
	"github.com/erikh/saturn/pkg/parsers"
	"github.com/erikh/saturn/pkg/storage"
	"github.com/erikh/saturn/pkg/terrors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(
		enterCmd, completeCmd,
		delCmd, delRecurCmd)
}

func parseKeys(args []string) ([]uint64, error) {
	if len(args) < 1 {
		return nil, terrors.ErrNoArgsProvided
	}
	var keys []uint64
	for _, arg := range args {
		num, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse record id <%s>: %w", terrors.ErrParse, arg, err)
		}
		keys = append(keys, num)
	}
	return keys, nil
}

var enterCmd = &cobra.Command{
	Use:   "enter <statement>",
	Short: "enter a calendar record",
	Long: `enter|e <statement>
  records an entry statement, e.g.
    enter tomorrow at 8pm Dinner with Rob
    enter recur 1d wednesday from 7:30am to 8am Standup notify me 5m`,
	Aliases: []string{"e"},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		entry, err := parsers.ParseEntry(strings.Join(args, " "), now, viper.GetBool("use-24h-time"))
		if err != nil {
			return err
		}
		return loadFuncStoreDB(func(db *storage.MemoryDB) error {
			if entry.Every != nil {
				key, err := db.InsertRecurrence(entry.Record, *entry.Every, now)
				if err != nil {
					return err
				}
				logging.Logger.Debugf("entered recurring record %d every %s", key, entry.Every)
				fmt.Fprintf(cmd.OutOrStdout(), "recurring %d\n", key)
				return nil
			}
			key, err := db.Insert(entry.Record, now)
			if err != nil {
				return err
			}
			logging.Logger.Debugf("entered record %d", key)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", key)
			return nil
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "mark records done",
	Long: `complete|c <id>...
  marks records as completed`,
	Aliases: []string{"c"},
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args)
		if err != nil {
			return err
		}
		now := time.Now()
		return loadFuncStoreDB(func(db *storage.MemoryDB) error {
			for _, key := range keys {
				if err := db.Complete(key, now); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var delCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "delete records",
	Long: `rm <id>...
  removes records from the calendar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args)
		if err != nil {
			return err
		}
		now := time.Now()
		return loadFuncStoreDB(func(db *storage.MemoryDB) error {
			for _, key := range keys {
				if err := db.Delete(key, now); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var delRecurCmd = &cobra.Command{
	Use:   "rm-recur <id>...",
	Short: "delete recurring records",
	Long: `rm-recur <id>...
  removes recurring records and every occurrence they produced`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := parseKeys(args)
		if err != nil {
			return err
		}
		now := time.Now()
		return loadFuncStoreDB(func(db *storage.MemoryDB) error {
			for _, key := range keys {
				if err := db.DeleteRecurrence(key, now); err != nil {
					return err
				}
			}
			return nil
		})
	},
}
