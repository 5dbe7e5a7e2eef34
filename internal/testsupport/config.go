package testsupport

import (
	"path/filepath"
	"testing"

	"reorg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.JournalDir = filepath.Join(base, "journal")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfgVal)
	}
	return &cfgVal
}

// WithSimilarityThreshold overrides the dissolve gate threshold.
func WithSimilarityThreshold(threshold float64) ConfigOption {
	return func(c *config.Config) {
		c.Dissolve.SimilarityThreshold = threshold
	}
}

// WithMaxWorkers overrides the executor pool bound.
func WithMaxWorkers(workers int) ConfigOption {
	return func(c *config.Config) {
		c.Execute.MaxWorkers = workers
	}
}
