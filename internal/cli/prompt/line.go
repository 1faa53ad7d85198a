package prompt

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// Line reads a single line of input under the given prompt label.
// Returns io.EOF when input is exhausted (Ctrl+D) and ErrAborted on
// Ctrl+C, so a REPL can distinguish "leave quietly" from real errors.
func Line(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}> ",
			Valid:   "{{ . }}> ",
			Invalid: "{{ . }}> ",
			Success: "{{ . }}> ",
		},
		// Empty lines are fine in a REPL
		AllowEdit: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return "", ErrAborted
		}
		if errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	return result, nil
}
