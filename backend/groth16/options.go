package groth16

import (
	"fmt"
	"runtime"
)

type proverConfig struct {
	nbTasks int
}

// ProverOption tunes a Prove call.
type ProverOption func(*proverConfig) error

// WithProverTasks caps the number of goroutines each multi-scalar
// multiplication may use.
func WithProverTasks(n int) ProverOption {
	return func(cfg *proverConfig) error {
		if n <= 0 {
			return fmt.Errorf("prover tasks must be positive, got %d", n)
		}
		cfg.nbTasks = n
		return nil
	}
}

func newProverConfig(opts ...ProverOption) (proverConfig, error) {
	cfg := proverConfig{nbTasks: runtime.NumCPU() / 2}
	if cfg.nbTasks < 1 {
		cfg.nbTasks = 1
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
