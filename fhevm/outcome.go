package fhevm

import "fmt"

// Outcome tells the runner whether the workflow may go on.
// A halted outcome is a deliberate stop, not a failure: the operator has to act
// (fund the wallet, for example) before re-running.
type Outcome struct {
	halted  bool
	message string
}

// Continue lets the next step run
var Continue = Outcome{}

// Halt stops the workflow with a message for the operator
func Halt(format string, args ...any) Outcome {
	return Outcome{halted: true, message: fmt.Sprintf(format, args...)}
}

// Halted reports whether the workflow must stop
func (o Outcome) Halted() bool {
	return o.halted
}

// Message is the operator-facing reason for a halt
func (o Outcome) Message() string {
	return o.message
}

type step func() (Outcome, error)

// runSteps runs steps in order until one halts or fails
func runSteps(steps ...step) (Outcome, error) {
	for _, s := range steps {
		out, err := s()
		if err != nil || out.Halted() {
			return out, err
		}
	}
	return Continue, nil
}

// always adapts a step that cannot halt
func always(fn func() error) step {
	return func() (Outcome, error) {
		return Continue, fn()
	}
}
