package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/lockfiles/internal/codec"
	"github.com/PolarWolf314/lockfiles/internal/configs"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	logger "github.com/PolarWolf314/lockfiles/internal/logging"
	"github.com/PolarWolf314/lockfiles/internal/transition"
	"github.com/PolarWolf314/lockfiles/internal/ui"
	"github.com/PolarWolf314/lockfiles/internal/utils"
	"github.com/PolarWolf314/lockfiles/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	lockFlag     bool
	unlockFlag   bool
	encryptFlag  bool
	decryptFlag  bool
	contFlag     bool
	overwrite    bool
	inplace      bool
	noRecurse    bool
	suffix       string
	passwordFile string
	password     string
	keyScheme    string
	dryRun       bool
	auditLog     string
	configPath   string
	verbosity    int
	debug        bool
	versionFlag  bool

	Logger logger.Logger

	// promptFunc reads a password without echo. Tests replace it.
	promptFunc = utils.ReadPassphraseAny

	RootCmd = &cobra.Command{
		Use:   "lockfiles [flags] FILES_OR_DIRS...",
		Short: "Lock and unlock files with a password",
		Long: `Encrypts ("locks") files with AES-256-CBC using a key derived from a
password, and decrypts ("unlocks") them again.

Locking file.txt writes file.txt.locked and removes file.txt once the
locked copy is safely on disk. Unlocking only considers files ending in the
suffix. Directories are processed recursively; hidden files and
directories are skipped.

Examples:
  # Lock every file under secrets/, prompting for the password
  lockfiles secrets/

  # Unlock them again, reading the password from a file
  lockfiles -u -p ~/.lockfiles-password secrets/

  # Lock in place, keeping the file names
  lockfiles -i notes.txt

  # Preview what an unlock would do
  lockfiles -u --dry-run -v 'docs/**/*.locked'`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbosity > 0,
				Debug:   debug || verbosity > 1,
			}
			Logger.Debugf("Initializing with verbosity=%d, debug=%t", verbosity, debug)
		},
		RunE: runLockFiles,
	}
)

func init() {
	flags := RootCmd.Flags()
	flags.BoolVarP(&lockFlag, "lock", "l", false, "lock files (default)")
	flags.BoolVarP(&unlockFlag, "unlock", "u", false, "unlock files")
	flags.BoolVarP(&encryptFlag, "encrypt", "e", false, "lock files")
	flags.BoolVarP(&decryptFlag, "decrypt", "d", false, "unlock files")
	flags.BoolVarP(&contFlag, "cont", "c", false, "continue with the next file after an error")
	flags.BoolVarP(&overwrite, "overwrite", "o", false, "overwrite existing files")
	flags.BoolVarP(&inplace, "inplace", "i", false, "lock or unlock in place, without a suffix (implies --overwrite)")
	flags.BoolVarP(&noRecurse, "no-recurse", "n", false, "do not descend into subdirectories")
	flags.StringVarP(&suffix, "suffix", "s", transition.DefaultSuffix, "suffix of locked files")
	flags.StringVarP(&passwordFile, "password-file", "p", "", `read the password from a file ("-" for stdin)`)
	flags.StringVarP(&password, "password", "P", "", "password (visible in the process list, prefer --password-file)")
	flags.StringVarP(&keyScheme, "key-scheme", "k", codec.SchemeDigest.String(), "key derivation: digest or legacy")
	flags.BoolVar(&dryRun, "dry-run", false, "show what would be done without changing anything")
	flags.StringVar(&auditLog, "audit-log", "", "append a JSON Lines record of every file to this path")
	flags.BoolVarP(&versionFlag, "version", "V", false, "print the version")

	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $LOCKFILES_CONFIG or <user config dir>/lockfiles/config.toml)")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v summary and info, -vv per-file debug)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	_ = flags.MarkDeprecated("encrypt", "use --lock instead")
	_ = flags.MarkDeprecated("decrypt", "use --unlock instead")
	RootCmd.MarkFlagsMutuallyExclusive("password", "password-file")

	RootCmd.Version = Version
	RootCmd.SetVersionTemplate("lockfiles {{.Version}}\n")

	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		return 1
	}
	return 0
}

func runLockFiles(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting lockfiles")

	if len(args) == 0 {
		return hintFor(kerrors.ErrNoFilesGiven)
	}

	mode, err := transition.ResolveMode(transition.ModeFlags{
		Lock:    lockFlag,
		Unlock:  unlockFlag,
		Encrypt: encryptFlag,
		Decrypt: decryptFlag,
	})
	if err != nil {
		return err
	}
	Logger.Debugf("Mode: %s", mode)

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	scheme, err := codec.ParseKeyScheme(cfg.Defaults.KeyScheme)
	if err != nil {
		return err
	}

	policy := cfg.Policy()
	if inplace {
		policy = policy.InPlace()
	}
	policy.DryRun = dryRun
	Logger.Debugf("Policy: %+v, recurse=%t, key scheme=%s", policy, cfg.Defaults.Recurse, scheme)

	if err := utils.DisableCoreDumps(); err != nil {
		Logger.Debugf("Could not disable core dumps: %v", err)
	}

	pw, err := utils.GetPassword(utils.PasswordOptions{
		Literal: password,
		File:    cfg.Defaults.PasswordFile,
		Prompt:  promptFunc,
	}, Logger)
	if err != nil {
		return err
	}

	// Warnings printed under --cont would be overwritten by the spinner line.
	quiet := verbosity == 0 && !debug && !policy.ContinueOnError
	spinner, cleanup := startSpinner(progressMessage(mode, policy), quiet)
	defer cleanup()

	opts := workflows.RunOptions{
		Paths:     args,
		Mode:      mode,
		Policy:    policy,
		Recurse:   cfg.Defaults.Recurse,
		Password:  pw,
		KeyScheme: scheme,
		AuditPath: utils.ExpandHome(cfg.Defaults.AuditLog),
	}

	result, err := workflows.Run(cmd.Context(), utils.NewOSFileSystem(), opts, Logger)
	if err != nil {
		if result != nil && verbosity > 0 {
			spinner.FinalMSG = formatSummary(result)
		}
		return hintFor(err)
	}

	Logger.Infof("Run %s completed", result.RunID)
	spinner.FinalMSG = formatResult(result)
	if verbosity > 0 {
		spinner.FinalMSG += "\n" + formatSummary(result)
	}
	return nil
}

// effectiveConfig loads the config file and applies every flag the user set
// explicitly on top of it.
func effectiveConfig(cmd *cobra.Command) (*configs.Config, error) {
	path := configs.ConfigPath(configPath)
	Logger.Debugf("Loading config from %s", path)

	cfg, err := configs.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	d := &cfg.Defaults
	if flags.Changed("suffix") {
		d.Suffix = suffix
	}
	if flags.Changed("overwrite") {
		d.Overwrite = overwrite
	}
	if flags.Changed("cont") {
		d.ContinueOnError = contFlag
	}
	if flags.Changed("no-recurse") {
		d.Recurse = !noRecurse
	}
	if flags.Changed("key-scheme") {
		d.KeyScheme = keyScheme
	}
	if flags.Changed("password-file") {
		d.PasswordFile = passwordFile
	}
	if flags.Changed("audit-log") {
		d.AuditLog = auditLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func progressMessage(mode transition.Mode, policy transition.Policy) string {
	verb := "Locking"
	if mode == transition.ModeUnlock {
		verb = "Unlocking"
	}
	if policy.DryRun {
		return "Planning..."
	}
	return verb + " files..."
}

// formatResult builds the final message for a completed run.
func formatResult(result *workflows.RunResult) string {
	var b strings.Builder

	if result.DryRun {
		b.WriteString(ui.Warning.Sprint("[dry-run]") + " The following changes would be made:\n")
		for _, out := range result.Outcomes {
			if out.Action != transition.ActionPlanned {
				continue
			}
			b.WriteString("    " + ui.Path.Sprint(out.Source) + " " + ui.Info.Sprint("→") + " " + ui.Path.Sprint(out.Destination) + "\n")
		}
		b.WriteString(ui.Muted.Sprint("nothing was changed"))
		return b.String()
	}

	done := result.Stats.Locked
	verb := "locked"
	if result.Mode == transition.ModeUnlock {
		done = result.Stats.Unlocked
		verb = "unlocked"
	}

	if len(result.Failures) == 0 {
		b.WriteString(ui.Success.Sprint("✓") + fmt.Sprintf(" %d %s %s", done, pluralFiles(done), verb))
		if result.Stats.Skipped > 0 {
			b.WriteString(" " + ui.Muted.Sprintf("%d skipped", result.Stats.Skipped))
		}
		return b.String()
	}

	b.WriteString(ui.Warning.Sprint("⚠") + fmt.Sprintf(" %d %s %s, %d failed:", done, pluralFiles(done), verb, len(result.Failures)))
	var failed []string
	for _, f := range result.Failures {
		failed = append(failed, f.Path)
	}
	b.WriteString(utils.FormatPaths(failed))
	b.WriteString(ui.Info.Sprint("→") + " Run with " + ui.Flag.Sprint("-v") + " to see each error")
	return b.String()
}

type summaryRow struct {
	label string
	value int64
}

// formatSummary renders the statistics table printed with -v.
func formatSummary(result *workflows.RunResult) string {
	s := result.Stats
	rows := []summaryRow{{"total files:", int64(s.Files)}}
	if result.Mode == transition.ModeLock {
		rows = append(rows, summaryRow{"total locked:", int64(s.Locked)})
	} else {
		rows = append(rows, summaryRow{"total unlocked:", int64(s.Unlocked)})
	}
	rows = append(rows,
		summaryRow{"total skipped:", int64(s.Skipped)},
		summaryRow{"total failed:", int64(s.Failed)},
		summaryRow{"total bytes read:", s.BytesRead},
		summaryRow{"total bytes written:", s.BytesWritten},
	)

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s %10s\n", r.label, utils.FormatCount(r.value))
	}
	return b.String()
}

// hintFor adds a suggestion to errors the user can fix with a flag.
func hintFor(err error) error {
	switch {
	case errors.Is(err, kerrors.ErrPathExists):
		return fmt.Errorf("%w\n%s Use %s to replace it or %s to skip it", err, ui.Info.Sprint("→"), ui.Flag.Sprint("--overwrite"), ui.Flag.Sprint("--cont"))
	case errors.Is(err, kerrors.ErrDecryption):
		return fmt.Errorf("%w\n%s Check the password and %s", err, ui.Info.Sprint("→"), ui.Flag.Sprint("--key-scheme"))
	case errors.Is(err, kerrors.ErrNoFilesGiven):
		return fmt.Errorf("%w\n%s Run %s for usage", err, ui.Info.Sprint("→"), ui.Code.Sprint("lockfiles --help"))
	default:
		return err
	}
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

// Helper functions for testing

// ResetGlobalState resets all flag variables and their Changed markers.
func ResetGlobalState() {
	lockFlag, unlockFlag, encryptFlag, decryptFlag = false, false, false, false
	contFlag, overwrite, inplace, noRecurse, dryRun, debug, versionFlag = false, false, false, false, false, false, false
	suffix = transition.DefaultSuffix
	passwordFile, password, auditLog, configPath = "", "", "", ""
	keyScheme = codec.SchemeDigest.String()
	verbosity = 0
	promptFunc = utils.ReadPassphraseAny
	resetConfigState()
	resetLogState()

	resetFlags := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
	resetFlags(RootCmd.Flags())
	resetFlags(RootCmd.PersistentFlags())
}
