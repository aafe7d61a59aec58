// Package line implements ports.Prompter over a line-oriented terminal.
package line

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/zoommark/internal/ports"
)

var _ ports.Prompter = (*Prompter)(nil)

// Prompter reads answers from a bufio.Reader it shares with the caller's
// command loop, so buffered input is never lost between the two.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	warn func(string)
}

// New returns a prompter. warn renders notices; nil writes them to out.
func New(in *bufio.Reader, out io.Writer, warn func(string)) *Prompter {
	p := &Prompter{in: in, out: out, warn: warn}
	if p.warn == nil {
		p.warn = func(message string) { _, _ = fmt.Fprintln(out, message) }
	}
	return p
}

func (p *Prompter) AskDisplayName(ctx context.Context) (string, bool, error) {
	name, ok, err := p.ask(ctx, "Display name: ")
	if err != nil || !ok {
		return "", false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}

func (p *Prompter) AskMarker(ctx context.Context) (ports.MarkerForm, bool, error) {
	title, ok, err := p.ask(ctx, "Title: ")
	if err != nil || !ok {
		return ports.MarkerForm{}, false, err
	}
	description, ok, err := p.ask(ctx, "Description: ")
	if err != nil || !ok {
		return ports.MarkerForm{}, false, err
	}
	return ports.MarkerForm{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}, true, nil
}

func (p *Prompter) Notify(message string) {
	p.warn(message)
}

// ask prints prompt and reads one line. End of input cancels.
func (p *Prompter) ask(ctx context.Context, prompt string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", false, fmt.Errorf("write prompt: %w", err)
	}

	text, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(text) == "" {
				return "", false, nil
			}
			return strings.TrimRight(text, "\r\n"), true, nil
		}
		return "", false, fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(text, "\r\n"), true, nil
}
