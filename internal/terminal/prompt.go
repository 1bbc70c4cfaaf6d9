package terminal

import (
	"fmt"

	prompt "github.com/c-bata/go-prompt"
)

type suggester = func(in prompt.Document) []prompt.Suggest

type filterFunc = func(completions []prompt.Suggest, sub string, ignoreCase bool) []prompt.Suggest

const promptPrefix = ">>> "

// Input reads a line with no completions.
func (t *Term) Input(p string) string {
	o, restore := prepareInputState(t.InterruptFn)
	defer restore()

	return prompt.Input(p, completerDummy(), o...)
}

// PromptWithSuggestions reads a line offering prefix completions.
func (t *Term) PromptWithSuggestions(p string, items []string) string {
	o, restore := prepareInputState(t.InterruptFn)
	defer restore()

	return prompt.Input(p, completerPrefix(items), o...)
}

// PromptWithFuzzySuggestions reads a line offering fuzzy completions.
func (t *Term) PromptWithFuzzySuggestions(p string, items []string) string {
	o, restore := prepareInputState(t.InterruptFn)
	defer restore()

	return prompt.Input(p, completerFuzzy(items), o...)
}

// prepareInputState saves the term state and builds prompt options; the
// returned restore undoes go-prompt's raw mode.
func prepareInputState(exitFn func(error)) (o []prompt.Option, restore func()) {
	if err := saveState(); err != nil {
		exitFn(err)
	}

	o = promptOptions()
	o = append(o, prompt.OptionAddKeyBind(quitKeybind(exitFn)))

	restore = func() {
		if err := restoreState(); err != nil {
			exitFn(err)
		}
	}

	return o, restore
}

func promptOptions() []prompt.Option {
	return []prompt.Option{
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionInputTextColor(prompt.DefaultColor),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSuggestionBGColor(prompt.Black),
		prompt.OptionDescriptionBGColor(prompt.Black),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionDescriptionTextColor(prompt.White),
		prompt.OptionSelectedSuggestionBGColor(prompt.White),
		prompt.OptionSelectedDescriptionBGColor(prompt.White),
		prompt.OptionScrollbarBGColor(prompt.DefaultColor),
		prompt.OptionScrollbarThumbColor(prompt.LightGray),
	}
}

func completerCreate(terms []string, filter filterFunc) suggester {
	sg := make([]prompt.Suggest, 0, len(terms))
	for _, t := range terms {
		sg = append(sg, prompt.Suggest{Text: fmt.Sprint(t)})
	}

	return func(in prompt.Document) []prompt.Suggest {
		return filter(sg, in.GetWordBeforeCursor(), true)
	}
}

func completerPrefix(terms []string) suggester {
	return completerCreate(terms, prompt.FilterHasPrefix)
}

func completerFuzzy(terms []string) suggester {
	return completerCreate(terms, prompt.FilterFuzzy)
}

func completerDummy() suggester {
	return completerCreate(nil, prompt.FilterHasPrefix)
}

func quitKeybind(f func(err error)) prompt.KeyBind {
	return prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(*prompt.Buffer) {
			if termState != nil {
				if err := restoreState(); err != nil {
					f(err)
				}
			}

			f(ErrActionAborted)
		},
	}
}
