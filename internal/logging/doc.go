// Package logger provides leveled logging for lockfiles commands.
//
// # Verbosity Levels
//
// Logging behavior is controlled by command-line flags:
//
//   - -v: info and warning messages, plus the run summary
//   - -vv or --debug: every file transition as it happens
//
// Without flags, only critical warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with -v or --debug
//	Logger.Debugf()         // Shown only with -vv / --debug
//	Logger.Warnf()          // Shown with -v or --debug
//	Logger.WarnfAlways()    // Always shown (files skipped under --cont)
//	Logger.Errorf()         // Always shown
//	Logger.ErrorfAndReturn() // Builds an error for RunE, logged with --debug
package logger
