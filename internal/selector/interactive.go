package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"stitch/internal/match"
	"stitch/internal/script"
)

// StdinIsTerminal reports whether stdin is attached to a terminal.
// Interactive selection is refused otherwise.
func StdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive prompts a human at a terminal for each script line.
type Interactive struct {
	In  io.Reader
	Out io.Writer

	once     sync.Once
	lines    chan string
	errs     chan error
	done     chan struct{}
	doneOnce sync.Once
}

// NewInteractive builds an interactive selector over the given streams.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{In: in, Out: out}
}

func (i *Interactive) start() {
	i.lines = make(chan string)
	i.errs = make(chan error, 1)
	i.done = make(chan struct{})
	scanner := bufio.NewScanner(i.In)
	go func() {
		defer close(i.lines)
		for scanner.Scan() {
			select {
			case i.lines <- scanner.Text():
			case <-i.done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			i.errs <- err
		}
	}()
}

// stop releases the reader goroutine once no further decisions will be read.
func (i *Interactive) stop() {
	i.doneOnce.Do(func() { close(i.done) })
}

// Select renders the candidate table and reads one decision. Accepted
// inputs: a candidate number, "s" (or empty) to skip, "q" to quit.
func (i *Interactive) Select(ctx context.Context, line script.Line, candidates []match.Candidate) (Decision, error) {
	i.once.Do(i.start)

	if len(candidates) == 0 {
		fmt.Fprintf(i.Out, "\nLine %d: %s\n  no candidates, skipping\n", line.Number, line.Text)
		return Decision{Kind: DecisionSkip}, nil
	}

	fmt.Fprintf(i.Out, "\nLine %d: %s\n%s\n", line.Number, line.Text, renderCandidates(candidates))

	for {
		fmt.Fprintf(i.Out, "pick [1-%d], s to skip, q to quit: ", len(candidates))

		var input string
		var open bool
		select {
		case <-ctx.Done():
			i.stop()
			return Decision{}, ctx.Err()
		case err := <-i.errs:
			i.stop()
			return Decision{}, fmt.Errorf("read selection: %w", err)
		case input, open = <-i.lines:
			if !open {
				// Input ended, treat like quit so prior picks survive.
				return Decision{Kind: DecisionQuit}, nil
			}
		}

		switch input = strings.ToLower(strings.TrimSpace(input)); input {
		case "", "s":
			return Decision{Kind: DecisionSkip}, nil
		case "q":
			i.stop()
			return Decision{Kind: DecisionQuit}, nil
		default:
			index, err := strconv.Atoi(input)
			if err != nil || index < 1 || index > len(candidates) {
				fmt.Fprintf(i.Out, "invalid choice %q\n", input)
				continue
			}
			return Decision{Kind: DecisionPick, Candidate: candidates[index-1]}, nil
		}
	}
}

func renderCandidates(candidates []match.Candidate) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Take", "Confidence", "Matched"})

	for index, candidate := range candidates {
		tw.AppendRow(table.Row{
			index + 1,
			candidate.SourceID,
			fmt.Sprintf("%.1f%%", candidate.Score*100),
			truncate(candidate.MatchedSpan, 60),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "..."
}
