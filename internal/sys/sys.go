// Package sys wraps the host facilities the list reaches for: clipboard,
// default browser and external commands.
package sys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

var (
	ErrCopyToClipboard = errors.New("copy to clipboard")
	ErrNoOpener        = errors.New("no system opener found")
)

// Env reads an environment variable, with def when unset.
func Env(s, def string) string {
	if v, ok := os.LookupEnv(s); ok {
		return v
	}

	return def
}

// BinExists reports whether the binary is reachable in $PATH.
func BinExists(s string) bool {
	_, err := exec.LookPath(s)
	return err == nil
}

// ExecuteCmd runs a command with the given arguments.
func ExecuteCmd(arg ...string) error {
	cmd := exec.CommandContext(context.Background(), arg[0], arg[1:]...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running command: %w", err)
	}

	return nil
}

// OSArgs returns the system opener command for the OS.
func OSArgs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/C", "start"}
	default:
		return []string{"xdg-open"}
	}
}

// OpenInBrowser opens a URL in the default browser.
func OpenInBrowser(s string) error {
	if err := browser.OpenURL(s); err != nil {
		return fmt.Errorf("%w: opening in browser", err)
	}

	return nil
}

// OpenFile opens a file with the system default application.
func OpenFile(path string) error {
	args := OSArgs()
	if !BinExists(args[0]) {
		return fmt.Errorf("%w: %s", ErrNoOpener, args[0])
	}

	if err := ExecuteCmd(append(args, path)...); err != nil {
		return fmt.Errorf("opening file: %w", err)
	}

	return nil
}

// CopyClipboard copies a string to the clipboard.
func CopyClipboard(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyToClipboard, err)
	}

	slog.Debug("text copied to clipboard", "text", s)

	return nil
}

// ReadClipboard returns the clipboard contents, empty when unreadable.
func ReadClipboard() string {
	s, err := clipboard.ReadAll()
	if err != nil {
		slog.Warn("could not read clipboard", "error", err)
		return ""
	}

	return s
}

// ErrAndExit prints the error and exits.
func ErrAndExit(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", "later", err)
		os.Exit(1)
	}
}
