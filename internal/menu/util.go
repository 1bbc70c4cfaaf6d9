package menu

import (
	"errors"
	"fmt"
	"strings"

	shellwords "github.com/junegunn/go-shellwords"
)

var (
	ErrFzf                    = errors.New("fzf: error: code 2")
	ErrFzfPermissionDenied    = errors.New("fzf: permission denied from become action: code 127")
	ErrFzfInvalidShellCommand = errors.New("fzf: invalid shell command for become action: code 126")
)

const bulletPoint = "·"

// appendKeyToHeader appends a key:desc hint to the header parts.
func appendKeyToHeader(opts []string, key, desc string) []string {
	return append(opts, fmt.Sprintf("%s:%s", key, desc))
}

// loadHeader appends a formatted header string to args.
func loadHeader(header []string, args *[]string) {
	if len(header) == 0 {
		return
	}

	h := strings.Join(header, " "+bulletPoint+" ")
	*args = append(*args, "--header="+h)
}

// loadKeybind appends a comma-separated keybind string to args.
func loadKeybind(keybind []string, args *[]string) error {
	if len(keybind) == 0 {
		return nil
	}

	keys := strings.Join(keybind, ",")
	a, err := shellwords.Parse(fmt.Sprintf("--bind='%s'", keys))
	if err != nil {
		return fmt.Errorf("parsing keybinds args: %w", err)
	}
	*args = append(*args, a...)

	return nil
}

// errForCode maps an fzf exit code to an error.
//
//	0   normal exit
//	1   no match
//	2   error
//	126 invalid shell command for become action
//	127 permission denied from become action
//	130 interrupted with CTRL-C or ESC
func errForCode(retcode int) error {
	switch retcode {
	case 1:
		return ErrNoMatching
	case 2:
		return ErrFzf
	case 126:
		return ErrFzfInvalidShellCommand
	case 127:
		return ErrFzfPermissionDenied
	case 130:
		return ErrActionAborted
	}

	return nil
}
