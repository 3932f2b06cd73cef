package fhevm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Optalysys-Ltd/optalysys-testnet/internal/model"
)

// RandomOperands draws n pairs uniformly from [0, MaxOperand].
// A nil rng uses the global source.
func RandomOperands(n int, rng *rand.Rand) []model.Operands {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	pairs := make([]model.Operands, n)
	for i := range pairs {
		pairs[i] = model.Operands{A: uint8(intN(MaxOperand + 1)), B: uint8(intN(MaxOperand + 1))}
	}
	return pairs
}

// askIterations re-asks until the answer is a valid iteration count
func (s *Session) askIterations() (int, error) {
	for {
		answer, err := s.Prompt.Ask(fmt.Sprintf("The number of times to run encryptedSum (between 1 and %d): ", MaxIterations), nil)
		if err != nil {
			return 0, err
		}
		n, err := ParseIterations(answer)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(s.Out, "ERROR: Please enter an integer in the range (1, %d)!\n", MaxIterations)
	}
}

// RunBenchmark stores rng-generated encrypted sums repeatedly and times the run.
// Cancelling stop aborts setup (balance, deployment, instance build) outright. Once the
// loop runs, it ends the run at the next iteration boundary instead: the iteration in
// flight always runs to confirmation. rng may be nil.
func RunBenchmark(stop context.Context, s *Session, rng *rand.Rand) (Outcome, *model.BenchmarkReport, error) {
	s.Logger.Info("Benchmarking storeEncryptedSum...")

	out, err := runSteps(
		func() (Outcome, error) { return s.ResolveKey(stop) },
		always(func() error { return s.LoadWallet(stop) }),
		always(func() error { return s.LoadProfile(stop) }),
		func() (Outcome, error) { return s.CheckFunding(stop) },
		always(func() error { return s.ProvisionContract(stop) }),
	)
	if err != nil || out.Halted() {
		return out, nil, err
	}

	n, err := s.askIterations()
	if err != nil {
		return Continue, nil, err
	}
	s.Logger.Info(fmt.Sprintf("You have entered %d. Generating %d random integers each for the values of a and b...", n, n))
	pairs := RandomOperands(n, rng)
	s.Logger.Info("Generated random a+b values:")
	for _, p := range pairs {
		fmt.Fprintf(s.Out, "  [%d, %d]\n", p.A, p.B)
	}

	if err := s.ConnectFHE(stop); err != nil {
		return Continue, nil, err
	}

	unwatch := context.AfterFunc(stop, func() {
		s.Logger.Info("benchmarking interrupted, waiting until current iteration completes...")
	})
	defer unwatch()

	// iterations are detached from stop; it is only checked between them
	ctx := context.WithoutCancel(stop)

	s.Logger.Info("Running benchmark...")
	report := &model.BenchmarkReport{Requested: n}
	start := time.Now()
	for i, ops := range pairs {
		if stop.Err() != nil {
			report.Interrupted = true
			s.Logger.Info(fmt.Sprintf("benchmarking truncated after %d times", i))
			break
		}
		s.Logger.Info(fmt.Sprintf("Running benchmark iteration %d:", i+1))
		if _, err := s.EncryptAndSubmit(ctx, ops); err != nil {
			report.Elapsed = time.Since(start)
			return Continue, report, fmt.Errorf("benchmark iteration %d: %w", i+1, err)
		}
		report.Completed++
	}
	report.Elapsed = time.Since(start)

	s.Logger.Info(fmt.Sprintf("Benchmark time for %d iterations of encryptedSum:", report.Completed),
		zap.Duration("benchmarkAdd", report.Elapsed))
	return Continue, report, nil
}
