package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/lockfiles/internal/audit"
	"github.com/PolarWolf314/lockfiles/internal/configs"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"github.com/PolarWolf314/lockfiles/internal/ui"
	"github.com/PolarWolf314/lockfiles/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	logAuditPath string
	logLimit     int
	logReverse   bool
	logOperation string
	logRunID     string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log written by runs with --audit-log (or audit_log in
the configuration file).

Examples:
  lockfiles log                          # View the configured log
  lockfiles log --audit-log audit.jsonl  # View a specific log
  lockfiles log -n 10 --reverse          # Ten most recent entries first
  lockfiles log --operation unlock       # Only unlocks
  lockfiles log --run <id>               # Entries of one run
  lockfiles log --since 2026-01-01       # Filter by date
  lockfiles log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	flags := logCmd.Flags()
	flags.StringVar(&logAuditPath, "audit-log", "", "audit log to read (default audit_log from the config file)")
	flags.IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	flags.BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	flags.StringVar(&logOperation, "operation", "", "filter by operation (comma-separated: lock,unlock)")
	flags.StringVar(&logRunID, "run", "", "filter by run ID")
	flags.StringVar(&logSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	flags.StringVar(&logUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	flags.BoolVar(&logOneline, "oneline", false, "compact one-line format")
	flags.BoolVar(&logJSON, "json", false, "output as JSON array")

	RootCmd.AddCommand(logCmd)
}

// resetLogState resets the log command flags for testing.
func resetLogState() {
	logAuditPath, logOperation, logRunID, logSince, logUntil = "", "", "", "", ""
	logLimit = 0
	logReverse, logOneline, logJSON = false, false, false
	logCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	path := logAuditPath
	if !cmd.Flags().Changed("audit-log") {
		cfg, err := configs.LoadConfig(configs.ConfigPath(configPath))
		if err != nil {
			return err
		}
		path = cfg.Defaults.AuditLog
	}
	Logger.Debugf("Audit log: %s", path)

	result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
		Path:       path,
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		RunID:      logRunID,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		if errors.Is(err, kerrors.ErrNoAuditLog) {
			return fmt.Errorf("%w\n%s Use %s or set audit_log in the config file", err, ui.Info.Sprint("→"), ui.Flag.Sprint("--audit-log"))
		}
		return err
	}

	Logger.Debugf("Parsed %d entries, %d after filtering", result.TotalEntriesBeforeFilter, len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	switch {
	case logJSON:
		return outputLogJSON(result.Entries)
	case logOneline:
		outputLogOneline(result.Entries)
	default:
		outputLogDefault(result.Entries)
	}
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		runID := e.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		fmt.Printf("%s %s %s %s\n", workflows.FormatDateTime(e.Timestamp), runID, e.Operation, e.Source)
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-6s  %s\n", workflows.FormatDateTime(e.Timestamp), e.Operation, workflows.FormatDetails(e))
	}
}
