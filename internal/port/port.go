// Package port exports and imports a reading list namespace as a single
// JSON document, the same shape a browser sync area would hold.
package port

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mateconpizza/later/internal/store"
)

var (
	ErrFileExists   = errors.New("file already exists")
	ErrEmptyBackup  = errors.New("backup holds no records")
	ErrInvalidShape = errors.New("backup is not a JSON object")
)

const FileExtJSON = ".json"

// Export writes the whole namespace to path as one JSON object, reserved
// keys included verbatim.
func Export(ctx context.Context, kv store.KV, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %q", ErrFileExists, path)
		}
	}

	ns, err := kv.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading namespace: %w", err)
	}

	if len(ns) == 0 {
		return ErrEmptyBackup
	}

	data, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	slog.Debug("namespace exported", "path", path, "records", len(ns))

	return nil
}

// Import merges the records from a backup file into the namespace.
// Existing keys are overwritten by the backup's records.
func Import(ctx context.Context, kv store.KV, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading backup: %w", err)
	}

	var ns store.Namespace
	if err := json.Unmarshal(data, &ns); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}

	if len(ns) == 0 {
		return 0, ErrEmptyBackup
	}

	if err := kv.Set(ctx, ns); err != nil {
		return 0, fmt.Errorf("writing namespace: %w", err)
	}

	slog.Debug("namespace imported", "path", path, "records", len(ns))

	return len(ns), nil
}
