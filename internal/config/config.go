// Package config holds the application identity and runtime flags.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// version of the application.
var version = "0.3.2"

const (
	appName    string = "later"      // Default name of the application
	command    string = "later"      // Default name of the executable
	MainDBName string = "later.db"   // Default name of the list database
	EnvHome    string = "LATER_HOME" // Environment variable overriding the data dir
)

type (
	AppConfig struct {
		Name   string      `json:"name"`    // Name of the application
		Cmd    string      `json:"cmd"`     // Name of the executable
		DBName string      `json:"db"`      // Database name
		DBPath string      `json:"db_path"` // Database path
		Info   information `json:"data"`    // Application information
		Path   path        `json:"path"`    // Application paths
		Flags  *Flags      `json:"-"`       // Command line flags
	}

	path struct {
		Data   string `json:"data"`   // Path to store the database
		Backup string `json:"backup"` // Path to store backups
	}

	information struct {
		URL     string `json:"url"`     // URL of the application
		Title   string `json:"title"`   // Title of the application
		Desc    string `json:"desc"`    // Description of the application
		Version string `json:"version"` // Version of the application
	}
)

// Flags are the command line flags shared across subcommands.
type Flags struct {
	Copy    bool   // Copy URL into clipboard
	Open    bool   // Open URL in default browser
	Menu    bool   // Menu mode
	JSON    bool   // JSON output
	Force   bool   // Force action
	Unread  bool   // Only unread items
	Sort    string // Sort option
	Query   string // Filter query
	Verbose int    // Verbose flag
}

// App is the default application configuration.
var App = &AppConfig{
	Name:   appName,
	Cmd:    command,
	DBName: MainDBName,
	Flags:  &Flags{},
	Info: information{
		URL:     "https://github.com/mateconpizza/later#readme",
		Title:   "Later: a read-it-later list",
		Desc:    "Save pages for later and keep them in sync across surfaces",
		Version: version,
	},
}

// SetAppPaths sets the app data paths.
func SetAppPaths(p string) {
	App.Path.Data = p
	App.Path.Backup = filepath.Join(p, "backup")
	App.DBPath = filepath.Join(p, App.DBName)
}

// SetVerbosity installs the default slog handler at the level the -v
// flags ask for.
func SetVerbosity(verbose int) {
	levels := []slog.Level{
		slog.LevelError,
		slog.LevelWarn,
		slog.LevelInfo,
		slog.LevelDebug,
	}
	level := levels[min(verbose, len(levels)-1)]

	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == "source" {
					if source, ok := a.Value.Any().(*slog.Source); ok {
						dir, file := filepath.Split(source.File)
						source.File = filepath.Join(filepath.Base(filepath.Clean(dir)), file)

						return slog.Attr{Key: "source", Value: slog.AnyValue(source)}
					}
				}

				return a
			},
		}),
	)
	slog.SetDefault(logger)

	slog.Debug("logging", "level", level)
}
