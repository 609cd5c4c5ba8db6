package configs

import (
	"os"
	"path/filepath"
)

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "LOCKFILES_CONFIG"

// ConfigPath returns the config file to use. An explicit path wins, then
// $LOCKFILES_CONFIG, then lockfiles/config.toml under the user config
// directory ($XDG_CONFIG_HOME on Linux). It returns "" when no location can
// be determined, which means built-in defaults only.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "lockfiles", "config.toml")
}
