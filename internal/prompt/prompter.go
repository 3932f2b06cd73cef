package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/config"
)

// ErrInterrupted is returned when the operator aborts a prompt with Ctrl-C or EOF
var ErrInterrupted = errors.New("prompt interrupted")

// Prompter reads operator input
type Prompter interface {
	// Ask prints question and returns the trimmed answer. Tab completes against candidates.
	Ask(question string, candidates []string) (string, error)
	// Secret reads a line without echo
	Secret(question string) (string, error)
}

// Terminal is a Prompter on the process terminal.
// One readline instance serves every question: it owns stdin once opened.
// Before that, secrets are read with hidden input directly from stdin, which must then
// be a terminal *os.File.
type Terminal struct {
	stdin  io.ReadCloser
	stdout io.Writer

	rl  *readline.Instance
	cfg *readline.Config
}

// NewTerminal creates a terminal prompter over the given streams
func NewTerminal(stdin io.ReadCloser, stdout io.Writer) *Terminal {
	return &Terminal{stdin: stdin, stdout: stdout}
}

func (t *Terminal) open() error {
	if t.rl != nil {
		return nil
	}
	t.cfg = &readline.Config{
		Stdin:           t.stdin,
		Stdout:          t.stdout,
		InterruptPrompt: "^C",
	}
	rl, err := readline.NewEx(t.cfg)
	if err != nil {
		return fmt.Errorf("failed to open prompt: %w", err)
	}
	t.rl = rl
	return nil
}

// Ask implements Prompter. A question containing newlines prints all but its last line
// above the editable prompt.
func (t *Terminal) Ask(question string, candidates []string) (string, error) {
	if err := t.open(); err != nil {
		return "", err
	}

	head, prompt := splitPrompt(question)
	if head != "" {
		fmt.Fprintln(t.stdout, head)
	}

	t.cfg.AutoComplete = nil
	if len(candidates) > 0 {
		t.cfg.AutoComplete = completer{candidates: candidates}
	}
	t.rl.SetPrompt(prompt)

	line, err := t.rl.Readline()
	if err != nil {
		return "", mapReadError(err)
	}
	return strings.TrimSpace(line), nil
}

// Secret implements Prompter
func (t *Terminal) Secret(question string) (string, error) {
	if t.rl == nil {
		raw, err := config.PromptForPassword(t.stdin, t.stdout, question)
		if err != nil {
			return "", err
		}
		defer clear(raw)
		return string(raw), nil
	}

	raw, err := t.rl.ReadPassword(question)
	if err != nil {
		return "", mapReadError(err)
	}
	defer clear(raw)
	return string(raw), nil
}

// Close releases the terminal
func (t *Terminal) Close() error {
	if t.rl == nil {
		return nil
	}
	err := t.rl.Close()
	t.rl = nil
	return err
}

func mapReadError(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return ErrInterrupted
	}
	return fmt.Errorf("failed to read answer: %w", err)
}

func splitPrompt(question string) (head, prompt string) {
	i := strings.LastIndex(question, "\n")
	if i < 0 {
		return "", question
	}
	return question[:i], question[i+1:]
}
