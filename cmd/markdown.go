package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// printMarkdown renders a markdown report for the terminal, or prints it raw
// when stdout is a pipe or -raw is set.
func printMarkdown(md string) {
	if *rawOutput || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown rather than losing the report
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
