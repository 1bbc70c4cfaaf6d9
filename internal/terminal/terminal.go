// Package terminal handles the interactive side of the CLI: plain prompts,
// confirmations and completion-backed input.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	ErrActionAborted    = errors.New("action aborted")
	ErrNotTTY           = errors.New("not a terminal")
	ErrNoStateToRestore = errors.New("no term state to restore")
)

// Default terminal settings.
var (
	MaxWidth = 120
	MinWidth = 80
)

var termState *term.State

// OptFn is an option function for the terminal.
type OptFn func(*Options)

type Options struct {
	reader      io.Reader
	InterruptFn func(error)
}

// Term wraps the interactive session.
type Term struct {
	Options
}

// WithReader sets the reader for the terminal.
func WithReader(r io.Reader) OptFn {
	return func(o *Options) {
		o.reader = r
	}
}

// WithInterruptFn sets the interrupt function for the terminal.
func WithInterruptFn(fn func(error)) OptFn {
	return func(o *Options) {
		o.InterruptFn = fn
	}
}

// New returns a new terminal.
func New(opts ...OptFn) *Term {
	t := &Term{Options: Options{reader: os.Stdin}}
	for _, opt := range opts {
		opt(&t.Options)
	}

	if t.InterruptFn == nil {
		t.InterruptFn = func(error) {}
	}

	return t
}

// Prompt prints p and returns one trimmed line of input.
func (t *Term) Prompt(p string) string {
	r := bufio.NewReader(t.reader)
	fmt.Print(p)
	s, _ := r.ReadString('\n')

	return strings.TrimSpace(s)
}

// Confirm prompts the user with a yes/no question. Empty input picks def.
func (t *Term) Confirm(q, def string) bool {
	if len(def) > 1 {
		def = def[:1]
	}
	if def != "y" && def != "n" {
		def = "n"
	}

	opts := markDefault([]string{"y", "n"}, def)
	p := fmt.Sprintf("%s [%s]: ", q, strings.Join(opts, "/"))

	r := bufio.NewReader(t.reader)

	for {
		fmt.Print(p)
		s, err := r.ReadString('\n')
		if err != nil {
			// input exhausted without a valid answer
			return false
		}

		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return strings.EqualFold(def, "y")
		}
		if s == "y" || s == "n" {
			return s == "y"
		}

		fmt.Println("invalid response")
	}
}

// IsPiped returns true if the terminal input is piped.
func (t *Term) IsPiped() bool {
	if file, ok := t.reader.(*os.File); ok {
		fileInfo, _ := file.Stat()
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}

	// a non-file reader behaves like a pipe
	return true
}

// PipedInput appends whitespace-split words from the pipe to input.
func (t *Term) PipedInput(input *[]string) {
	if !t.IsPiped() {
		return
	}

	s := readPipe(t.reader)
	if s == "" {
		return
	}

	*input = append(*input, strings.Fields(s)...)
}

// ClearLine deletes n lines in the console.
func ClearLine(n int) {
	if n <= 0 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	for range n {
		fmt.Print("\033[F\033[K")
	}
}

// markDefault uppercases the default option.
func markDefault(opts []string, def string) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		if o == def {
			out[i] = strings.ToUpper(o)
		} else {
			out[i] = o
		}
	}

	return out
}

func readPipe(r io.Reader) string {
	var b strings.Builder

	scanner := bufio.NewScanner(bufio.NewReader(r))
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "error reading from pipe:", err)
		return ""
	}

	return b.String()
}

func saveState() error {
	oldState, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	termState = oldState

	return nil
}

func restoreState() error {
	if termState == nil {
		return ErrNoStateToRestore
	}

	if err := term.Restore(int(os.Stdin.Fd()), termState); err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}

	return nil
}
