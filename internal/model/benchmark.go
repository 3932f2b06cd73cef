package model

import "time"

// Operands is one (a, b) pair fed to storeEncryptedSum
type Operands struct {
	A uint8
	B uint8
}

// BenchmarkReport summarizes a benchmark run
type BenchmarkReport struct {
	Requested   int
	Completed   int
	Interrupted bool
	Elapsed     time.Duration
}
