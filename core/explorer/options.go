package explorer

import (
	"github.com/asaidimu/go-sift/core/kpi"
	"go.uber.org/zap"
)

// Options configures an Explorer.
type Options struct {
	// Logger receives the explorer's and its engines' logs. Nil disables logging.
	Logger *zap.Logger
	// Classifier picks the KPI columns. Nil selects the name-hint classifier.
	Classifier kpi.Classifier
	// CacheSize bounds the number of memoized results kept per dataset
	// revision. Zero or less disables memoization.
	CacheSize int
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() *Options {
	return &Options{
		Logger:    zap.NewNop(),
		CacheSize: 64,
	}
}
