//go:build !windows

package app

import (
	"os"
	"os/user"
	"path/filepath"
)

func defaultConfigurationFile() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" && filepath.IsAbs(v) {
		return filepath.Join(v, configurationDirectoryName, "configuration.yml")
	}

	u, err := user.Current()
	if err != nil {
		return "configuration.yml"
	}

	return filepath.Join(u.HomeDir, ".config", configurationDirectoryName, "configuration.yml")
}
