package cmd

import (
	"fmt"
	"time"

	"github.com/erikh/saturn/config"
	"github.com/erikh/saturn/pkg/logging"
	"github.com/erikh/saturn/pkg/parsers"
	"github.com/erikh/saturn/pkg/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.0.0"

var rootCmd = &cobra.Command{
	Use:          "saturn",
	Short:        fmt.Sprintf("saturn %s: a calendar that speaks your language", version),
	SilenceUsage: true,
}

func init() {
	rootCmd.SetHelpTemplate(`
{{ with (or .Long .Short) }}{{ . | trimTrailingWhitespaces }}

{{ end}}Usage:{{if .Runnable}}
  {{ .UseLine }} [flags]{{end}}{{if .HasAvailableSubCommands}}
  {{ .CommandPath }} [command]{{end}}{{if gt (len .Aliases) 0 }}

Aliases:
  {{ .NameAndAliases }}{{end}}{{if .HasExample}}

Examples:
{{ .Example }}{{end}}{{if .HasAvailableSubCommands}}}

Available Commands:
{{- range .Commands }}
  {{ rpad .NameAndAliases 20 }} {{ .Short }}
{{- end}}{{end}}{{if .HasAvailableFlags}}{{if not .Parent}}

Flags:
{{ .Flags.FlagUsages | trimTrailingWhitespaces }}{{else}}

{{ if .HasInheritedFlags }}Local {{end}}Flags:
{{ .LocalFlags.FlagUsages | trimTrailingWhitespaces }}{{if .HasInheritedFlags}}

Global Flags:
{{ .InheritedFlags.FlagUsages | trimTrailingWhitespaces }}{{end}}{{end}}{{end}}
`)
	cobra.OnInitialize(func() {
		arg, err := rootCmd.PersistentFlags().GetString("config")
		cobra.CheckErr(err)
		cobra.CheckErr(config.InitViper(arg))
		cobra.CheckErr(logging.Initialize())
	})
	rootCmd.PersistentFlags().StringP("config", "c", "", "yaml config filepath")
	rootCmd.PersistentFlags().Bool("24h", false, "read bare clock tokens as 24h time")
	viper.BindPFlag("use-24h-time", rootCmd.PersistentFlags().Lookup("24h"))
	rootCmd.PersistentFlags().String("well", "", "query window around now, a duration like 1h")
	viper.BindPFlag("query-window", rootCmd.PersistentFlags().Lookup("well"))
	rootCmd.PersistentFlags().String("db", "", "calendar db filepath")
	viper.BindPFlag("db-file", rootCmd.PersistentFlags().Lookup("db"))
}

func Execute() error {
	return rootCmd.Execute()
}

// well is the query window around now used by the now and notify
// lookups.
func well() (time.Duration, error) {
	arg := viper.GetString("query-window")
	if arg == "" {
		return time.Hour, nil
	}
	span, err := parsers.ParseSpan(arg)
	if err != nil {
		return 0, err
	}
	return span.Fixed(), nil
}

func loadFuncStoreDB(f func(db *storage.MemoryDB) error) error {
	path, err := config.DBPath()
	if err != nil {
		return err
	}
	db, err := storage.Load(path)
	if err != nil {
		return err
	}
	if err := f(db); err != nil {
		return err
	}
	return storage.Dump(path, db)
}

func loadFuncDB(f func(db *storage.MemoryDB) error) error {
	path, err := config.DBPath()
	if err != nil {
		return err
	}
	db, err := storage.Load(path)
	if err != nil {
		return err
	}
	return f(db)
}
