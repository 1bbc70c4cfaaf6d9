package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/list"
	"github.com/mateconpizza/later/internal/locale"
	"github.com/mateconpizza/later/internal/menu"
	"github.com/mateconpizza/later/internal/store"
	"github.com/mateconpizza/later/internal/sys"
)

// msgs holds the display strings for the CLI surface.
var msgs = locale.Default()

// ensurePaths resolves and creates the application data directory.
func ensurePaths(_ *cobra.Command, _ []string) error {
	p, err := config.DataPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	config.SetAppPaths(p)

	// a catalog in the config dir overrides the built-in display strings
	if cfgDir, err := config.ConfigPath(); err == nil {
		if c, err := locale.Load(filepath.Join(cfgDir, "locale.yml")); err == nil {
			msgs = c
		}
	}

	return nil
}

// openService opens the list service over the sqlite-backed namespace.
// The returned func closes the store.
func openService() (*list.Service, func(), error) {
	kv, err := store.OpenSQLite(config.App.DBPath)
	if err != nil {
		return nil, nil, err
	}

	return list.New(kv), kv.Close, nil
}

// openStore opens the raw sqlite namespace, for commands that move whole
// namespaces around instead of going through the service.
func openStore() (store.KV, func(), error) {
	kv, err := store.OpenSQLite(config.App.DBPath)
	if err != nil {
		return nil, nil, err
	}

	return kv, kv.Close, nil
}

// itemLine is the one-line display form used by the plain list and the
// picker. The URL leads so fzf keybinds can grab it with {1}.
func itemLine(it *item.ListItem) string {
	mark := " "
	if it.Viewed {
		mark = "*"
	}

	return fmt.Sprintf("%s %s %s", it.URL, mark, it.DisplayTitle())
}

// pickAndAct runs the fzf picker and applies the copy/open flags to the
// picked records. With neither flag, the URL is copied.
func pickAndAct(ctx context.Context, s *list.Service, items []*item.ListItem) error {
	m := menu.New[*item.ListItem](
		menu.WithDefaultSettings(),
		menu.WithMultiSelection(),
		menu.WithKeybind("ctrl-o", fmt.Sprintf("execute(%s open {1})", config.App.Cmd), "open"),
	)
	m.SetItems(items)
	m.SetPreprocessor(itemLine)

	picked, err := m.Select()
	if err != nil {
		return err
	}

	flags := config.App.Flags
	for _, it := range picked {
		if flags.Open {
			if err := s.Open(ctx, it.URL); err != nil {
				return err
			}

			continue
		}

		if err := sys.CopyClipboard(it.URL); err != nil {
			return err
		}
	}

	return nil
}
