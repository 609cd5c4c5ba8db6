// Package configs manages the lockfiles configuration file.
//
// Configuration is stored in TOML format and only holds defaults for
// command line flags:
//
//	[defaults]
//	suffix = ".locked"
//	overwrite = false
//	continue_on_error = false
//	recurse = true
//	key_scheme = "digest"
//	password_file = ""
//	audit_log = ""
//
// # Location
//
// ConfigPath picks the file: --config, then $LOCKFILES_CONFIG, then
// lockfiles/config.toml in the user config directory. A missing file means
// the built-in defaults.
//
// # Precedence
//
// Flags given on the command line always win over the file; the file wins
// over the built-in defaults. Unknown keys and invalid values are reported
// as ErrInvalidConfig before any file is touched.
package configs
