package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

var (
	done   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failed = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Spinner animates a progress line until stopped
type Spinner struct {
	w       io.Writer
	animate bool

	mu      sync.Mutex
	text    string
	stop    chan struct{}
	stopped chan struct{}
}

// NewSpinner creates a spinner on w. Animation only runs when w is a terminal.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w, animate: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start shows text with a spinner in front of it
func (s *Spinner) Start(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.text = text

	if !s.animate {
		fmt.Fprintf(s.w, "%s ...\n", text)
		s.stop = make(chan struct{})
		return
	}

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(s.stop, s.stopped, text)
}

func (s *Spinner) run(stop <-chan struct{}, stopped chan<- struct{}, text string) {
	defer close(stopped)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", frames[i%len(frames)], text)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and prints "DONE!"
func (s *Spinner) Stop() {
	s.finish(done("DONE!"))
}

// Fail ends the animation and prints "FAILED"
func (s *Spinner) Fail() {
	s.finish(failed("FAILED"))
}

func (s *Spinner) finish(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	if s.stopped != nil {
		<-s.stopped
		fmt.Fprintf(s.w, "\r%s %s\n", s.text, status)
	} else {
		fmt.Fprintln(s.w, status)
	}
	s.stop, s.stopped = nil, nil
}

// Run wraps fn in a spinner labelled text
func Run(w io.Writer, text string, fn func() error) error {
	s := NewSpinner(w)
	s.Start(text)
	if err := fn(); err != nil {
		s.Fail()
		return err
	}
	s.Stop()
	return nil
}
