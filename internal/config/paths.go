package config

import (
	"fmt"

	gap "github.com/muesli/go-app-paths"

	"github.com/mateconpizza/later/internal/sys"
)

// DataPath returns the data path for the application. LATER_HOME wins
// over the XDG location.
func DataPath() (string, error) {
	if p := sys.Env(EnvHome, ""); p != "" {
		return p, nil
	}

	scope := gap.NewScope(gap.User, appName)

	dataDir, err := scope.DataPath("")
	if err != nil {
		return "", fmt.Errorf("getting data path: %w", err)
	}

	return dataDir, nil
}

// ConfigPath returns the config path for the application.
func ConfigPath() (string, error) {
	scope := gap.NewScope(gap.User, appName)

	configDir, err := scope.ConfigPath("")
	if err != nil {
		return "", fmt.Errorf("getting config path: %w", err)
	}

	return configDir, nil
}
