package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

var _ primary.Prompter = (*ConsolePrompter)(nil)

// ErrInputClosed is returned once the input reaches EOF
var ErrInputClosed = errors.New("input closed")

// ConsolePrompter asks the operator how many jobs to fetch. The menu is
// only printed when Interactive is set, so piped input does not mix menu
// text into the stdout consumer's output.
type ConsolePrompter struct {
	Interactive bool

	in        io.Reader
	out       io.Writer
	lines     chan string
	startOnce sync.Once
}

// NewConsolePrompter reads answers from in and writes the menu to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		Interactive: isTerminal(in),
		in:          in,
		out:         out,
		lines:       make(chan string),
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NextCount implements primary.Prompter. Unknown answers are reported and
// the menu is shown again. EOF on the input is an exit request.
func (p *ConsolePrompter) NextCount(ctx context.Context) (int, error) {
	for {
		p.printf("1) Get 1 job from server\n2) Get X job(s) from server\n3) Get all jobs (%d) from server\n0) Exit\n> ", defs.MaxJobs)
		choice, err := p.readLine(ctx)
		if errors.Is(err, ErrInputClosed) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}

		switch choice {
		case "0":
			return 0, nil
		case "1":
			return 1, nil
		case "2":
			p.printf("How many jobs?\n> ")
			answer, err := p.readLine(ctx)
			if errors.Is(err, ErrInputClosed) {
				return 0, nil
			}
			if err != nil {
				return 0, err
			}
			return ClampCount(answer), nil
		case "3":
			return defs.MaxJobs, nil
		default:
			fmt.Fprintf(p.out, "%s, is not an alternative.\n", choice)
		}
	}
}

// ConfirmRetry implements primary.Prompter.
func (p *ConsolePrompter) ConfirmRetry(ctx context.Context, cause error) error {
	p.printf("Press enter to retry, or (ctrl+c) to exit!")
	if _, err := p.readLine(ctx); err != nil {
		return fmt.Errorf("not retrying after %v: %w", cause, err)
	}
	return nil
}

// ClampCount parses a requested job count and clamps it to [0, MaxJobs].
// Anything unparsable is zero.
func ClampCount(s string) int {
	value, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || value < 0 {
		return 0
	}
	if value > defs.MaxJobs {
		return defs.MaxJobs
	}
	return value
}

func (p *ConsolePrompter) printf(format string, args ...interface{}) {
	if p.Interactive {
		fmt.Fprintf(p.out, format, args...)
	}
}

// readLine returns the next trimmed input line. The scanner runs in its
// own goroutine so a pending read never holds up cancellation.
func (p *ConsolePrompter) readLine(ctx context.Context) (string, error) {
	p.startOnce.Do(func() {
		go func() {
			defer close(p.lines)
			scanner := bufio.NewScanner(p.in)
			for scanner.Scan() {
				p.lines <- strings.TrimSpace(scanner.Text())
			}
		}()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}
