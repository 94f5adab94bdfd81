package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhConfirmer asks yes/no questions with a huh confirm dialog.
// Any form error, including ctrl+c, counts as a decline.
type HuhConfirmer struct {
	Affirmative string
	Negative    string
}

// Confirm shows prompt and reports whether the user accepted.
func (c HuhConfirmer) Confirm(prompt string) bool {
	yes, no := c.Affirmative, c.Negative
	if yes == "" {
		yes = "Yes, continue"
	}
	if no == "" {
		no = "No, cancel"
	}

	// the first line becomes the title, the rest the description
	title, description, _ := strings.Cut(prompt, "\n")

	var accepted bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(strings.TrimSpace(description)).
				Affirmative(yes).
				Negative(no).
				Value(&accepted),
		),
	).Run()
	if err != nil {
		return false
	}
	return accepted
}
