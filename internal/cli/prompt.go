package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/instrsync/instrsync/internal/diff"
	"github.com/instrsync/instrsync/internal/syncer"
)

// promptPreviewLines bounds the diff preview printed before the menu.
const promptPreviewLines = 10

// StdinPrompter asks for write confirmation with a plain numbered menu on
// standard input. It implements syncer.Prompter for terminals where the
// full-screen prompt is unwanted.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter creates a prompter reading os.Stdin and writing os.Stdout.
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// Confirm implements syncer.Prompter. Running out of input dismisses the
// prompt; an empty answer means No.
func (p *StdinPrompter) Confirm(req syncer.ConfirmRequest) (syncer.Choice, error) {
	p.writeHeader(req)
	p.writePreview(req)

	fmt.Fprintln(p.out, "\nApply this change?")
	fmt.Fprintln(p.out, "  1. Yes")
	fmt.Fprintln(p.out, "  2. Yes to all")
	fmt.Fprintln(p.out, "  3. No")
	fmt.Fprintln(p.out, "  4. Always (stop asking)")
	fmt.Fprint(p.out, "\nEnter choice [1-4]: ")

	for {
		line, err := p.in.ReadString('\n')
		trimmed := strings.TrimSpace(line)

		if err != nil && trimmed == "" {
			fmt.Fprintln(p.out)
			if errors.Is(err, io.EOF) {
				return syncer.ChoiceNone, nil
			}
			return syncer.ChoiceNone, fmt.Errorf("failed to read input: %w", err)
		}

		if choice, ok := parseChoice(trimmed); ok {
			return choice, nil
		}

		if err != nil {
			fmt.Fprintln(p.out)
			if errors.Is(err, io.EOF) {
				return syncer.ChoiceNone, nil
			}
			return syncer.ChoiceNone, fmt.Errorf("failed to read input: %w", err)
		}

		fmt.Fprint(p.out, "Invalid choice. Enter 1-4: ")
	}
}

// parseChoice maps an answer to a confirmation choice. An empty answer
// defaults to No.
func parseChoice(s string) (syncer.Choice, bool) {
	switch strings.ToLower(s) {
	case "1", "y", "yes":
		return syncer.ChoiceYes, true
	case "2", "a", "all":
		return syncer.ChoiceYesToAll, true
	case "", "3", "n", "no":
		return syncer.ChoiceNo, true
	case "4", "always":
		return syncer.ChoiceAlways, true
	}
	return syncer.ChoiceNone, false
}

func (p *StdinPrompter) writeHeader(req syncer.ConfirmRequest) {
	verb := "Update"
	if req.Create {
		verb = "Create"
	}
	fmt.Fprintf(p.out, "\n%s %s\n", verb, req.Path)
	fmt.Fprintf(p.out, "  Root:     %s\n", req.Root.Name)
	if req.Source.Language != "" {
		fmt.Fprintf(p.out, "  Language: %s\n", req.Source.Language)
	}
	fmt.Fprintf(p.out, "  Source:   %s\n", req.Source.URL)
}

func (p *StdinPrompter) writePreview(req syncer.ConfirmRequest) {
	if len(req.Hunks) == 0 {
		return
	}

	added, removed := diff.Stats(req.Hunks)
	fmt.Fprintf(p.out, "\nChanges: +%d/-%d\n", added, removed)
	fmt.Fprintln(p.out, strings.Repeat("-", 50))

	total := 0
	for _, hunk := range req.Hunks {
		total += 1 + len(hunk.Lines)
	}

	shown := 0
	for _, hunk := range req.Hunks {
		if shown >= promptPreviewLines {
			break
		}
		fmt.Fprintf(p.out, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		shown++

		for _, line := range hunk.Lines {
			if shown >= promptPreviewLines {
				break
			}
			fmt.Fprintln(p.out, line.String())
			shown++
		}
	}

	if total > shown {
		fmt.Fprintf(p.out, "... (%d more lines)\n", total-shown)
	}
	fmt.Fprintln(p.out, strings.Repeat("-", 50))
}
