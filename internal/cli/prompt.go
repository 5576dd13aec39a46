package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrAborted is returned when the administrator declines a confirmation.
var ErrAborted = errors.New("aborted")

// Prompter asks the administrator for input on a terminal.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		return "", err
	}
	return answer, nil
}

// AskRequired repeats the question until a non-empty answer is given.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning("Une réponse est requise.")); err != nil {
			return "", fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// Confirm asks a yes/no question; only "o", "oui", "y" and "yes" confirm.
func (p *Prompter) Confirm(ctx context.Context, question string) error {
	answer, err := p.Ask(ctx, question+" [o/N]")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "o", "oui", "y", "yes":
		return nil
	default:
		return ErrAborted
	}
}
