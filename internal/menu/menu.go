// Package menu wraps fzf as an interactive picker over the reading list.
package menu

import (
	"errors"
	"fmt"

	fzf "github.com/junegunn/fzf/src"
)

var (
	ErrNoRecords       = errors.New("no records provided")
	ErrNoMatching      = errors.New("no matching record")
	ErrActionAborted   = errors.New("action aborted")
	ErrNothingSelected = errors.New("no records selected")
)

var fzfDefaults = []string{
	"--ansi",
	"--cycle",
	"--reverse",
	"--sync",
	"--info=inline-right",
	"--layout=default",
	"--prompt= Later> ",
	"--no-bold",
}

// Runner abstracts the fzf engine so selection logic can be tested
// without a terminal.
type Runner interface {
	Parse(defaults bool, args []string) (*fzf.Options, error)
	Run(opts *fzf.Options) (int, error)
}

type fzfRunner struct{}

func (fzfRunner) Parse(defaults bool, args []string) (*fzf.Options, error) {
	o, err := fzf.ParseOptions(defaults, args)
	if err != nil {
		return nil, fmt.Errorf("fzf: %w", err)
	}

	return o, nil
}

func (fzfRunner) Run(opts *fzf.Options) (int, error) {
	code, err := fzf.Run(opts)
	if err != nil {
		return code, fmt.Errorf("fzf: %w", err)
	}

	return code, nil
}

type OptFn func(*Options)

type Options struct {
	runner   Runner
	keybind  []string
	header   []string
	args     []string
	defaults bool
}

// Menu drives one fzf session over items of type T.
type Menu[T comparable] struct {
	Items        []T
	preprocessor func(T) string
	Options
}

func defaultOpts() Options {
	return Options{
		runner: fzfRunner{},
		args:   append([]string(nil), fzfDefaults...),
		header: make([]string, 0),
	}
}

// WithRunner swaps the fzf engine. Tests use a fake.
func WithRunner(r Runner) OptFn {
	return func(o *Options) {
		o.runner = r
	}
}

// WithArgs adds raw args to fzf.
func WithArgs(args ...string) OptFn {
	return func(o *Options) {
		o.args = append(o.args, args...)
	}
}

// WithDefaultSettings loads $FZF_DEFAULT_OPTS_FILE and $FZF_DEFAULT_OPTS.
func WithDefaultSettings() OptFn {
	return func(o *Options) {
		o.defaults = true
	}
}

// WithHeader sets the fzf header line.
func WithHeader(s string) OptFn {
	return func(o *Options) {
		o.args = append(o.args, "--header="+s)
	}
}

// WithKeybind adds a <key>:<action> bind with a header hint.
func WithKeybind(key, action, desc string) OptFn {
	return func(o *Options) {
		o.header = appendKeyToHeader(o.header, key, desc)
		o.keybind = append(o.keybind, fmt.Sprintf("%s:%s", key, action))
	}
}

// WithMultiSelection allows picking several records at once.
func WithMultiSelection() OptFn {
	return func(o *Options) {
		o.args = append(o.args, "--highlight-line", "--multi")
		o.header = appendKeyToHeader(o.header, "tab", "select")
		o.header = appendKeyToHeader(o.header, "ctrl-a", "toggle-all")
		o.keybind = append(o.keybind, "ctrl-a:toggle-all")
	}
}

// New creates a Menu.
func New[T comparable](opts ...OptFn) *Menu[T] {
	o := defaultOpts()
	for _, fn := range opts {
		fn(&o)
	}

	return &Menu[T]{
		Options: o,
		Items:   make([]T, 0),
	}
}

// SetItems sets the records the picker runs over.
func (m *Menu[T]) SetItems(items []T) {
	m.Items = items
}

// SetPreprocessor sets the record to display-line formatter.
func (m *Menu[T]) SetPreprocessor(fn func(T) string) {
	m.preprocessor = fn
}

// Select runs fzf and returns the chosen records.
func (m *Menu[T]) Select() ([]T, error) {
	if len(m.Items) == 0 {
		return nil, ErrNoRecords
	}

	loadHeader(m.header, &m.args)
	if err := loadKeybind(m.keybind, &m.args); err != nil {
		return nil, err
	}

	pre := m.preprocessor
	if pre == nil {
		pre = func(t T) string { return fmt.Sprintf("%+v", t) }
	}

	byLine := make(map[string]T, len(m.Items))
	for _, it := range m.Items {
		byLine[pre(it)] = it
	}

	inputChan := make(chan string)
	go func() {
		for _, it := range m.Items {
			inputChan <- pre(it)
		}
		close(inputChan)
	}()

	outputChan := make(chan string)
	resultChan := make(chan []T)

	go func() {
		var result []T
		for s := range outputChan {
			if it, ok := byLine[s]; ok {
				result = append(result, it)
			}
		}
		resultChan <- result
	}()

	options, err := m.runner.Parse(m.defaults, m.args)
	if err != nil {
		return nil, err
	}

	options.Input = inputChan
	options.Output = outputChan

	code, err := m.runner.Run(options)

	close(outputChan)
	result := <-resultChan

	if err != nil {
		return nil, err
	}
	if err := errForCode(code); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNothingSelected
	}

	return result, nil
}
