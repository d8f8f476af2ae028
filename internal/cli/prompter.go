// Package cli contains the interactive pieces of the glossary command:
// confirmation prompts and live progress output.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no questions on the terminal. The default answer is no.
type Prompter struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
}

// NewPrompter creates a Prompter reading answers from stdin and writing
// questions to stdout.
func NewPrompter(stdin io.Reader, stdout io.Writer) *Prompter {
	return &Prompter{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
	}
}

// Confirm prints the prompt and reads one line. Only "y" or "yes" count as
// consent; anything else, including a read error, declines.
func (p *Prompter) Confirm(prompt string) bool {
	fmt.Fprintf(p.stdoutWriter, "%s [y/N]: ", prompt)
	line, err := p.stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
